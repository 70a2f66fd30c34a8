package jux

import (
	configadapter "github.com/jrjsmrtn/go-jux/internal/adapters/driven/config"
)

// Re-export configuration types from the config adapter
type Config = configadapter.Config
type StorageMode = configadapter.StorageMode
type ConfigSource = configadapter.Source
type ConfigSetting = configadapter.Setting
type ConfigOptionSpec = configadapter.OptionSpec

const (
	StorageModeLocal = configadapter.StorageModeLocal
	StorageModeAPI   = configadapter.StorageModeAPI
	StorageModeBoth  = configadapter.StorageModeBoth
)

const (
	ConfigSourceDefault = configadapter.SourceDefault
	ConfigSourceFile    = configadapter.SourceFile
	ConfigSourceEnv     = configadapter.SourceEnv
)

var (
	DefaultConfig     = configadapter.Default
	LoadConfig        = configadapter.Load
	DescribeConfig    = configadapter.Describe
	InitConfig        = configadapter.Init
	DefaultConfigPath = configadapter.DefaultPath
)
