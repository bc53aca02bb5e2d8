package storage

import (
	"strings"

	"taskboard-api/domain"
)

// taskFilter renders f as an OData filter over the task partition.
func taskFilter(f domain.TaskFilter) string {
	clauses := []string{eq("PartitionKey", taskPartition)}
	if f.Status != "" {
		clauses = append(clauses, eq("Status", string(f.Status)))
	}
	if f.Priority != "" {
		clauses = append(clauses, eq("Priority", string(f.Priority)))
	}
	if f.CategoryID != "" {
		clauses = append(clauses, eq("CategoryID", f.CategoryID))
	}
	if f.StatusNot != "" {
		clauses = append(clauses, "Status ne "+quote(string(f.StatusNot)))
	}
	return strings.Join(clauses, " and ")
}

func eq(property, value string) string {
	return property + " eq " + quote(value)
}

func quote(v string) string {
	return "'" + strings.ReplaceAll(v, "'", "''") + "'"
}
