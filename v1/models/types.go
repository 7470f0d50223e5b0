package models

import (
	"context"
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// StringSlice represents a JSON-encoded array of strings (image URLs etc.)
// with custom scanning so the same column works on PostgreSQL and SQLite.
type StringSlice []string

// Scan implements the sql.Scanner interface for StringSlice
func (ss *StringSlice) Scan(value interface{}) error {
	if value == nil {
		*ss = StringSlice{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into StringSlice", value)
	}

	return json.Unmarshal(bytes, ss)
}

// Value implements the driver.Valuer interface for StringSlice
func (ss *StringSlice) Value() (driver.Value, error) {
	return json.Marshal(*ss)
}

// GormDataType gorm common data type
func (StringSlice) GormDataType() string {
	return "jsonb"
}

// GormValue implements the GormValuerInterface
func (ss StringSlice) GormValue(ctx context.Context, db *gorm.DB) clause.Expr {
	data, err := json.Marshal(ss)
	if err != nil {
		panic(fmt.Sprintf("Failed to marshal StringSlice to JSON: %v", err))
	}

	return clause.Expr{
		SQL:  jsonExpr(db),
		Vars: []interface{}{string(data)},
	}
}

// JSONMap represents a free-form JSON object column (shipping addresses,
// application payloads).
type JSONMap map[string]interface{}

// Scan implements the sql.Scanner interface for JSONMap
func (m *JSONMap) Scan(value interface{}) error {
	if value == nil {
		*m = JSONMap{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into JSONMap", value)
	}

	return json.Unmarshal(bytes, m)
}

// Value implements the driver.Valuer interface for JSONMap
func (m *JSONMap) Value() (driver.Value, error) {
	return json.Marshal(*m)
}

// GormDataType gorm common data type
func (JSONMap) GormDataType() string {
	return "jsonb"
}

// GormValue implements the GormValuerInterface
func (m JSONMap) GormValue(ctx context.Context, db *gorm.DB) clause.Expr {
	data, err := json.Marshal(m)
	if err != nil {
		panic(fmt.Sprintf("Failed to marshal JSONMap to JSON: %v", err))
	}

	return clause.Expr{
		SQL:  jsonExpr(db),
		Vars: []interface{}{string(data)},
	}
}

// jsonExpr picks the SQL fragment for a JSON column write. SQLite stores
// JSON as TEXT and needs no cast; PostgreSQL requires a jsonb cast.
func jsonExpr(db *gorm.DB) string {
	if db.Dialector.Name() == "sqlite" {
		return "?"
	}
	return "?::jsonb"
}
