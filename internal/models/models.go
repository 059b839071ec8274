// Package models provides the data structures used throughout the application.
package models

// CategoryConfig represents a category configuration in the keywords YAML file
type CategoryConfig struct {
	Name     string   `yaml:"name"`
	Keywords []string `yaml:"keywords"`
}

// CategoriesConfig represents the structure of the keywords YAML file
type CategoriesConfig struct {
	Categories []CategoryConfig `yaml:"categories"`
}
