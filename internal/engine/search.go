package engine

import (
	"slices"
	"strings"

	"github.com/tartampluch/go-celebrations/internal/config"
)

// Search keeps employees whose name, id or department contains query
// (case-insensitive) and whose department equals department. An empty
// department or "all" matches every department.
func Search(employees []Employee, query, department string) []Employee {
	q := strings.ToLower(strings.TrimSpace(query))
	anyDept := department == "" || department == config.DepartmentAll

	var out []Employee
	for _, e := range employees {
		if !anyDept && e.Department != department {
			continue
		}
		if q == "" ||
			strings.Contains(strings.ToLower(e.Name), q) ||
			strings.Contains(strings.ToLower(e.ID), q) ||
			strings.Contains(strings.ToLower(e.Department), q) {
			out = append(out, e)
		}
	}
	return out
}

// Departments returns the distinct non-empty departments, sorted.
func Departments(employees []Employee) []string {
	var out []string
	for _, e := range employees {
		if e.Department != "" && !slices.Contains(out, e.Department) {
			out = append(out, e.Department)
		}
	}
	slices.Sort(out)
	return out
}
