package config

import "fmt"

// DomainConfig holds configurable annotation constraints
type DomainConfig struct {
	// Passage constraints
	MaxNodesPerPassage  int
	MaxEdgesPerNode     int
	MaxLayersPerPassage int

	// Text constraints
	MaxTerminalTextLength int

	// Validation settings
	AllowOrphanTerminals bool
}

// DefaultDomainConfig returns the default domain configuration
func DefaultDomainConfig() *DomainConfig {
	return &DomainConfig{
		MaxNodesPerPassage:    100000,
		MaxEdgesPerNode:       500,
		MaxLayersPerPassage:   16,
		MaxTerminalTextLength: 1000,
		AllowOrphanTerminals:  true,
	}
}

// ProductionDomainConfig returns production-specific configuration
func ProductionDomainConfig() *DomainConfig {
	config := DefaultDomainConfig()

	config.MaxNodesPerPassage = 50000
	config.MaxEdgesPerNode = 200
	config.AllowOrphanTerminals = false

	return config
}

// DevelopmentDomainConfig returns development-specific configuration
func DevelopmentDomainConfig() *DomainConfig {
	config := DefaultDomainConfig()

	config.MaxNodesPerPassage = 0 // unlimited
	config.MaxEdgesPerNode = 0

	return config
}

// LoadDomainConfig loads domain configuration based on environment
func LoadDomainConfig(environment string) *DomainConfig {
	switch environment {
	case "production":
		return ProductionDomainConfig()
	case "development":
		return DevelopmentDomainConfig()
	default:
		return DefaultDomainConfig()
	}
}

// Validate checks if the configuration is valid
func (c *DomainConfig) Validate() error {
	if c.MaxNodesPerPassage < 0 {
		return fmt.Errorf("max nodes per passage cannot be negative")
	}
	if c.MaxEdgesPerNode < 0 {
		return fmt.Errorf("max edges per node cannot be negative")
	}
	if c.MaxLayersPerPassage < 0 {
		return fmt.Errorf("max layers per passage cannot be negative")
	}
	return nil
}
