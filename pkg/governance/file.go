package governance

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// PolicyFile is the YAML document accepted by LoadPolicyFile:
//
//	policies:
//	  - name: Production
//	    environment: prod
//	    requireApproval: true
//	    allowList: ["/^show /", "/interface print"]
//	    denyList: [reload, erase]
//	    dangerousList: [reload]
type PolicyFile struct {
	Policies []PolicyInput `yaml:"policies"`
}

// ParsePolicyFile decodes and validates a policy document. Unknown fields
// are rejected.
func ParsePolicyFile(r io.Reader) (*PolicyFile, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var f PolicyFile
	if err := dec.Decode(&f); err != nil {
		if err == io.EOF {
			return &f, nil
		}
		return nil, fmt.Errorf("decoding policy file: %w", err)
	}
	for i, in := range f.Policies {
		p := Policy{
			Name:          in.Name,
			Environment:   in.Environment,
			AllowList:     in.AllowList,
			DenyList:      in.DenyList,
			DangerousList: in.DangerousList,
		}
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("policy %d (%s): %w", i, in.Name, err)
		}
	}
	return &f, nil
}

// LoadPolicyFile reads and parses the policy document at path.
func LoadPolicyFile(path string) (*PolicyFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParsePolicyFile(bytes.NewReader(data))
}

// ApplyResult counts what Apply changed.
type ApplyResult struct {
	Created int
	Updated int
}

// Apply writes every policy in f to s. A stored policy with the same name
// and environment is updated in place; anything else is created.
func (f *PolicyFile) Apply(ctx context.Context, s Store) (ApplyResult, error) {
	var res ApplyResult

	existing, err := s.ListPolicies(ctx)
	if err != nil {
		return res, fmt.Errorf("listing policies: %w", err)
	}
	byKey := make(map[string]string, len(existing))
	for _, p := range existing {
		key := string(p.Environment) + "/" + p.Name
		if _, ok := byKey[key]; !ok {
			byKey[key] = p.ID
		}
	}

	for _, in := range f.Policies {
		key := string(in.Environment) + "/" + in.Name
		if id, ok := byKey[key]; ok {
			patch := PolicyPatch{
				AllowList:       &in.AllowList,
				DenyList:        &in.DenyList,
				DangerousList:   &in.DangerousList,
				RequireApproval: &in.RequireApproval,
			}
			if _, err := s.UpdatePolicy(ctx, id, patch); err != nil {
				return res, fmt.Errorf("updating policy %q: %w", in.Name, err)
			}
			res.Updated++
			continue
		}
		p, err := s.CreatePolicy(ctx, in)
		if err != nil {
			return res, fmt.Errorf("creating policy %q: %w", in.Name, err)
		}
		byKey[key] = p.ID
		res.Created++
	}
	return res, nil
}
