package main

import (
	"fmt"
	"os"

	"github.com/babasida246/NetOpsAI-sub007/pkg/db"
	"github.com/babasida246/NetOpsAI-sub007/pkg/governance"
	governancegorm "github.com/babasida246/NetOpsAI-sub007/pkg/governance/gorm"
)

const (
	storeMemory   = "memory"
	storePostgres = "postgres"
)

// defaultStore is postgres when DATABASE_URL is set.
func defaultStore() string {
	if os.Getenv("DATABASE_URL") != "" {
		return storePostgres
	}
	return storeMemory
}

// openStore returns the governance store named by kind.
func openStore(kind string) (governance.Store, error) {
	switch kind {
	case storeMemory:
		return governance.NewMemoryStore(), nil
	case storePostgres:
		database, err := db.Connect(db.Config{})
		if err != nil {
			return nil, err
		}
		return governancegorm.NewStore(database), nil
	}
	return nil, fmt.Errorf("unknown store %q (want %s or %s)", kind, storeMemory, storePostgres)
}
