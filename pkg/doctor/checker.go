package doctor

import (
	"sync"

	"github.com/hilsamlabs/hostprep/pkg/sysexec"
)

// Checker provides host-readiness checking functionality.
type Checker struct {
	executor    sysexec.Executor
	sudoersPath string
}

// NewChecker creates a new Checker with the real executor.
func NewChecker() *Checker {
	return &Checker{
		executor: &sysexec.RealExecutor{},
	}
}

// NewCheckerWithExecutor creates a new Checker with a custom executor (for testing).
func NewCheckerWithExecutor(executor sysexec.Executor) *Checker {
	return &Checker{
		executor: executor,
	}
}

// SetSudoersPath overrides the drop-in path to check.
func (c *Checker) SetSudoersPath(path string) {
	c.sudoersPath = path
}

// CheckAll runs all checks and returns groups with results.
func (c *Checker) CheckAll() []CheckGroup {
	var result []CheckGroup
	for _, groupID := range GetAllGroupIDs() {
		result = append(result, c.CheckGroup(groupID))
	}
	return result
}

// CheckAllAsync runs all groups concurrently and returns groups with results.
func (c *Checker) CheckAllAsync() []CheckGroup {
	groupIDs := GetAllGroupIDs()
	result := make([]CheckGroup, len(groupIDs))
	var wg sync.WaitGroup

	for i, groupID := range groupIDs {
		wg.Add(1)
		go func(idx int, id string) {
			defer wg.Done()
			result[idx] = c.CheckGroup(id)
		}(i, groupID)
	}

	wg.Wait()
	return result
}

// CheckGroup runs all checks for a specific group.
func (c *Checker) CheckGroup(groupID string) CheckGroup {
	def, ok := GetGroupDefinition(groupID)
	if !ok {
		return CheckGroup{
			ID:   groupID,
			Name: "Unknown",
		}
	}

	group := CheckGroup{
		ID:          groupID,
		Name:        def.Name,
		Description: def.Description,
	}

	for _, checkID := range def.CheckIDs {
		group.Checks = append(group.Checks, c.runCheck(checkID))
	}

	return group
}

// runCheck runs a specific check by ID.
func (c *Checker) runCheck(checkID string) Check {
	switch checkID {
	case IDPkgManager:
		return CheckPkgManager(c.executor)
	case IDDocker:
		return CheckDocker(c.executor)
	case IDCompose:
		return CheckCompose(c.executor)
	case IDContainerd:
		return CheckContainerd(c.executor)
	case IDDockerService:
		return CheckDockerService(c.executor)
	case IDSudoers:
		return CheckSudoers(c.executor, c.sudoersPath)
	case IDCryptoPolicy:
		return CheckCryptoPolicy(c.executor)
	case IDSublime:
		return CheckSublime(c.executor)
	default:
		return Check{
			ID:      checkID,
			Name:    checkID,
			Status:  StatusError,
			Message: "unknown check",
		}
	}
}

// GetCheck runs a single check by ID.
func (c *Checker) GetCheck(checkID string) Check {
	return c.runCheck(checkID)
}

// Summary represents an overall readiness summary.
type Summary struct {
	Total    int
	OK       int
	Missing  int
	Warnings int
	Errors   int
}

// GetSummary returns a summary of check results.
func (c *Checker) GetSummary(groups []CheckGroup) Summary {
	var summary Summary

	for _, group := range groups {
		for _, check := range group.Checks {
			summary.Total++
			switch check.Status {
			case StatusOK:
				summary.OK++
			case StatusMissing:
				summary.Missing++
			case StatusWarning:
				summary.Warnings++
			case StatusError:
				summary.Errors++
			}
		}
	}

	return summary
}

// HasIssues returns true if any checks have issues.
func (c *Checker) HasIssues(groups []CheckGroup) bool {
	summary := c.GetSummary(groups)
	return summary.Missing > 0 || summary.Errors > 0
}
