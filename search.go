package encryptedfield

import "fmt"

// maxParamNumber is the PostgreSQL maximum parameter number.
const maxParamNumber = 65535

// isValidColumnName checks if a column name is safe for SQL interpolation.
// Must start with letter or underscore, followed by alphanumeric/underscore.
func isValidColumnName(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if i == 0 {
			if !((r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || r == '_') {
				return false
			}
		} else {
			if !((r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') ||
				(r >= '0' && r <= '9') || r == '_') {
				return false
			}
		}
	}
	return true
}

// SearchCondition holds a SQL WHERE clause fragment and its argument for
// equality search on a deterministic column.
type SearchCondition struct {
	SQL  string        // SQL fragment like "email = $1"
	Args []interface{} // the deterministic ciphertext for the searched value
}

// SearchCondition builds a parameterized equality condition for the given
// column and logical value. Because the column is deterministic, encrypting
// the search value reproduces the stored ciphertext exactly, so a plain
// equality comparison matches at the storage layer.
//
// The value goes through the binding's full write pipeline (normalizer,
// codec, context), so it matches whatever Bind would have stored.
//
// paramOffset specifies the starting parameter number ($1, $2, etc.).
// Use this when composing with other WHERE conditions.
//
// Example:
//
//	cond, _ := emailCol.SearchCondition("email", "alice@example.com", 1)
//	query := fmt.Sprintf("SELECT * FROM users WHERE %s", cond.SQL)
//	rows, _ := db.Query(query, cond.Args...)
func (c *DeterministicColumn) SearchCondition(columnName string, value any, paramOffset int) (*SearchCondition, error) {
	if !isValidColumnName(columnName) {
		return nil, fmt.Errorf("%w: invalid column name %q", ErrInvalidFormat, columnName)
	}
	if paramOffset < 1 || paramOffset > maxParamNumber {
		return nil, fmt.Errorf("%w: paramOffset must be 1-%d", ErrInvalidFormat, maxParamNumber)
	}

	if isNull(indirect(value)) {
		// NULL never equals anything, including another NULL.
		return &SearchCondition{SQL: "FALSE"}, nil
	}

	stored, err := c.Bind(value)
	if err != nil {
		return nil, err
	}

	return &SearchCondition{
		SQL:  fmt.Sprintf("%s = $%d", columnName, paramOffset),
		Args: []interface{}{stored},
	}, nil
}
