package integration

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/exec"
	"strconv"
	"sync/atomic"
	"time"

	"gorm.io/gorm"

	"github.com/babasida246/NetOpsAI-sub007/pkg/audit"
	governancegorm "github.com/babasida246/NetOpsAI-sub007/pkg/governance/gorm"
	"github.com/babasida246/NetOpsAI-sub007/pkg/server"
	"github.com/babasida246/NetOpsAI-sub007/pkg/server/endpoints"
)

// portCounter is used to allocate unique ports for each test server
var portCounter int32 = 19000

// ServerInstance represents a running NetOps server
type ServerInstance struct {
	Server        *server.Server
	URL           string
	Port          int
	listener      net.Listener
	cancel        context.CancelFunc
	serverProcess *exec.Cmd
}

// startInlineServer starts an in-process server over the Postgres stores
func startInlineServer(db *gorm.DB, rawDB *sql.DB) (*ServerInstance, error) {
	port := int(atomic.AddInt32(&portCounter, 1))

	s := server.NewServer(server.Deps{
		Config:     endpoints.TestConfig(),
		Governance: governancegorm.NewStore(db),
		Recorder:   audit.NewRecorder(audit.NewStoreWithDB(rawDB)),
	}, "127.0.0.1", strconv.Itoa(port))
	endpoints.RegisterAll(s)

	listener, err := net.Listen("tcp", fmt.Sprintf("127.0.0.1:%d", port))
	if err != nil {
		return nil, fmt.Errorf("failed to create listener on port %d: %w", port, err)
	}

	instance := &ServerInstance{
		Server:   s,
		URL:      fmt.Sprintf("http://127.0.0.1:%d", port),
		Port:     port,
		listener: listener,
	}

	go func() {
		_ = s.StartWithListener(listener)
	}()

	if err := waitForServer(instance.URL, 10*time.Second); err != nil {
		instance.Stop()
		return nil, fmt.Errorf("server failed to become ready: %w", err)
	}
	return instance, nil
}

// startBinaryServer starts a server using the netopsctl binary
func startBinaryServer(binaryPath, dbURL, signingKey string) (*ServerInstance, error) {
	port := int(atomic.AddInt32(&portCounter, 1))
	portStr := strconv.Itoa(port)

	configDir, err := os.MkdirTemp("", "netops-config")
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())

	// Migrations already ran in the test setup
	cmd := exec.CommandContext(ctx, binaryPath, "server", "--store", "postgres", "--no-migrate", "-b", "127.0.0.1", "-p", portStr)
	cmd.Env = append(os.Environ(),
		"DATABASE_URL="+dbURL,
		"AUDIT_DATABASE_URL="+dbURL,
		"NETOPS_CONFIG_PATH="+configDir,
		"NETOPS_JWT_SIGNING_KEY="+signingKey,
		"NETOPS_DEFAULT_ENVIRONMENT=dev",
	)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Start(); err != nil {
		cancel()
		return nil, fmt.Errorf("failed to start binary: %w", err)
	}

	instance := &ServerInstance{
		URL:           fmt.Sprintf("http://127.0.0.1:%d", port),
		Port:          port,
		cancel:        cancel,
		serverProcess: cmd,
	}

	if err := waitForServer(instance.URL, 30*time.Second); err != nil {
		instance.Stop()
		return nil, fmt.Errorf("server failed to become ready: %w", err)
	}
	return instance, nil
}

// Stop shuts down the server instance
func (si *ServerInstance) Stop() {
	if si.Server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		_ = si.Server.Shutdown(ctx)
		cancel()
	}
	if si.listener != nil {
		_ = si.listener.Close()
	}
	if si.cancel != nil {
		si.cancel()
	}
	if si.serverProcess != nil && si.serverProcess.Process != nil {
		_ = si.serverProcess.Process.Kill()
		_ = si.serverProcess.Wait()
	}
}

// waitForServer polls the server until it responds or times out
func waitForServer(serverURL string, timeout time.Duration) error {
	client := &http.Client{Timeout: 2 * time.Second}
	deadline := time.Now().Add(timeout)

	for time.Now().Before(deadline) {
		resp, err := client.Get(serverURL + "/")
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return nil
			}
		}
		time.Sleep(100 * time.Millisecond)
	}

	return fmt.Errorf("server did not become ready within %v", timeout)
}
