package sqlite

import "strings"

// The modernc driver surfaces constraint failures as plain text, so
// classification is a substring match on the SQLITE_CONSTRAINT message.
func hasConstraintMarker(err error, marker string) bool {
	return err != nil && strings.Contains(err.Error(), marker)
}

func isForeignKeyViolation(err error) bool {
	return hasConstraintMarker(err, "FOREIGN KEY constraint failed")
}

func isUniqueViolation(err error) bool {
	return hasConstraintMarker(err, "UNIQUE constraint failed")
}
