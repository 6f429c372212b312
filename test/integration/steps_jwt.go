package integration

import (
	"time"

	"github.com/cucumber/godog"

	"github.com/babasida246/NetOpsAI-sub007/pkg/changecontrol"
	"github.com/babasida246/NetOpsAI-sub007/pkg/identity"
)

func (s *StepsContext) registerTokenSteps(sc *godog.ScenarioContext) {
	sc.Step(`^I am "([^"]*)" with role "([^"]*)"$`, s.iAmWithRole)
	sc.Step(`^I am not authenticated$`, s.iAmNotAuthenticated)
	sc.Step(`^I use an expired token for "([^"]*)"$`, s.iUseAnExpiredTokenFor)
	sc.Step(`^I use a token for "([^"]*)" signed with "([^"]*)"$`, s.iUseATokenSignedWith)
}

func (s *StepsContext) iAmWithRole(userID, roleName string) error {
	role, err := changecontrol.ParseRole(roleName)
	if err != nil {
		return err
	}
	s.authToken, err = identity.IssueToken([]byte(s.tc.SigningKey), userID, role, time.Hour, time.Now())
	return err
}

func (s *StepsContext) iAmNotAuthenticated() error {
	s.authToken = ""
	return nil
}

func (s *StepsContext) iUseAnExpiredTokenFor(userID string) error {
	var err error
	s.authToken, err = identity.IssueToken([]byte(s.tc.SigningKey), userID, changecontrol.RoleAdmin,
		time.Hour, time.Now().Add(-2*time.Hour))
	return err
}

func (s *StepsContext) iUseATokenSignedWith(userID, key string) error {
	var err error
	s.authToken, err = identity.IssueToken([]byte(key), userID, changecontrol.RoleAdmin, time.Hour, time.Now())
	return err
}
