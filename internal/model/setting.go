package model

import (
	"encoding/json"
	"strconv"
	"time"
)

// Setting is a typed key/value pair for school-wide configuration.
// Type: "string" | "boolean" | "integer" | "json" | "file"
type Setting struct {
	Key       string `gorm:"type:varchar(100);primaryKey"`
	Value     string `gorm:"type:text;not null"`
	Type      string `gorm:"type:varchar(20);not null;default:'string'"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Setting value types.
const (
	SettingTypeString  = "string"
	SettingTypeBoolean = "boolean"
	SettingTypeInteger = "integer"
	SettingTypeJSON    = "json"
	SettingTypeFile    = "file"
)

// Well-known setting keys.
const (
	SettingCompanyName          = "company_name"
	SettingCompanyStreet        = "company_street"
	SettingCompanyCity          = "company_city"
	SettingCompanyTaxNumber     = "company_tax_number"
	SettingCompanySmallBusiness = "company_small_business"
	SettingCompanyBankDetails   = "company_bank_details"
)

// BoolValue casts the stored value according to the declared type.
// Unparseable values read as false.
func (s *Setting) BoolValue() bool {
	v, err := strconv.ParseBool(s.Value)
	if err != nil {
		return false
	}
	return v
}

// IntValue casts the stored value to an integer (0 on parse failure).
func (s *Setting) IntValue() int {
	v, err := strconv.Atoi(s.Value)
	if err != nil {
		return 0
	}
	return v
}

// JSONValue unmarshals a json-typed value into dst.
func (s *Setting) JSONValue(dst interface{}) error {
	return json.Unmarshal([]byte(s.Value), dst)
}
