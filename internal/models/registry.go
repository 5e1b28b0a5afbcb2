package models

import "strings"

// RegistryEntry is a row of a normalized-name registry (producers, drivers).
// Property is always "" for registries without a property column.
type RegistryEntry struct {
	ID       string
	Name     string
	Property string
}

// Producer is the wire form of a producers registry entry.
type Producer struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Property string `json:"property"`
}

// Driver is the wire form of a drivers registry entry.
type Driver struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// RegistryRequest is the body of create, delete and import requests.
type RegistryRequest struct {
	Name     *string `json:"name"`
	Property *string `json:"property"`
}

// NameValue returns the name or "" when absent.
func (r RegistryRequest) NameValue() string {
	if r.Name == nil {
		return ""
	}
	return *r.Name
}

// PropertyValue returns the property or "" when absent.
func (r RegistryRequest) PropertyValue() string {
	if r.Property == nil {
		return ""
	}
	return *r.Property
}

// ImportSummary tallies a registry batch import.
type ImportSummary struct {
	Added    int `json:"added"`
	Existing int `json:"existing"`
}

// NormalizeKey is the comparison form of registry names and properties.
func NormalizeKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
