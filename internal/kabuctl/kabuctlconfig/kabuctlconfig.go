// Copyright 2026 Peter Edge
//
// All rights reserved.

// Package kabuctlconfig provides configuration parsing and validation for kabuctl.
//
// Configuration is stored at ~/.config/kabuctl/config.yaml (or $KABUCTL_CONFIG_DIR/config.yaml).
package kabuctlconfig

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bufdev/kabuctl/internal/kabuctl/kabuctlrecord"
	"github.com/bufdev/kabuctl/internal/pkg/textdecode"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// ConfigFileName is the name of the configuration file within the config directory.
const ConfigFileName = "config.yaml"

// configTemplate is the default configuration file template with comments.
// yaml.v3 does not preserve comments, so we hardcode the template string.
const configTemplate = `# The configuration file version.
#
# Required. The only current valid version is v1.
version: v1
# The withholding tax rate applied to positive realized gains in taxable accounts.
#
# Required. Quoted so that the exact decimal is kept.
tax_rate: "0.20315"
# The text encoding of uploaded CSV files.
#
# Optional. One of auto, shift_jis, or utf-8. Defaults to auto, which keeps
# valid UTF-8 as-is and otherwise decodes as Shift_JIS.
encoding: auto
# The largest share of replaced characters a decoded file may contain.
#
# Optional. Defaults to 0.05.
max_replacement_ratio: 0.05
# Render the raw field name for fields without a label instead of failing.
#
# Optional. Only meant for development.
allow_missing_labels: false
# Account classification for profit and loss totals.
#
# An account is tax-advantaged if its name contains one of
# tax_advantaged_markers and none of taxable_markers. Every other account,
# including general accounts, is taxable.
accounts:
  taxable_markers:
    - 特定
  tax_advantaged_markers:
    - NISA
# Display labels for every field, keyed by field name.
#
# Required for every field of every report kind.
labels:
  settlement_date: 受渡日
  product: 商品
  account: 口座
  security_code: 銘柄コード
  security_name: 銘柄
  currency: 受取通貨
  unit_price: 単価
  shares: 数量
  dividends_before_tax: 配当・分配金(税引前)
  taxes: 税額
  net_amount_received: 受取金額
  total_dividends_before_tax: 配当・分配金合計(税引前)
  total_taxes: 税額合計
  total_net_amount_received: 受取金額合計
  trade_date: 約定日
  asked_price: 売却/決済単価
  proceeds: 売却/決済額
  purchase_price: 平均取得価額
  realized_profit_and_loss: 実現損益
  total_realized_profit_and_loss: 実現損益合計
  withholding_tax: 源泉徴収税額
  profit_and_loss: 損益
`

// ExternalConfig is the YAML-serializable configuration file structure.
type ExternalConfig struct {
	// Version is the configuration file version (must be "v1").
	Version string `yaml:"version"`
	// TaxRate is the withholding tax rate as a decimal string.
	TaxRate string `yaml:"tax_rate"`
	// Encoding is the decoding strategy name.
	Encoding string `yaml:"encoding"`
	// MaxReplacementRatio is the decode failure threshold.
	MaxReplacementRatio *float64 `yaml:"max_replacement_ratio"`
	// AllowMissingLabels enables the raw field name fallback.
	AllowMissingLabels bool `yaml:"allow_missing_labels"`
	// Accounts holds the account classification markers.
	Accounts ExternalAccountsConfig `yaml:"accounts"`
	// Labels maps field names to display labels.
	Labels map[string]string `yaml:"labels"`
}

// ExternalAccountsConfig holds account classification markers.
type ExternalAccountsConfig struct {
	// TaxableMarkers are substrings of taxable account names (e.g., "特定").
	TaxableMarkers []string `yaml:"taxable_markers"`
	// TaxAdvantagedMarkers are substrings of tax-advantaged account names (e.g., "NISA").
	TaxAdvantagedMarkers []string `yaml:"tax_advantaged_markers"`
}

// Config is the validated runtime configuration derived from the config file.
type Config struct {
	// TaxRate is the withholding tax rate, in [0, 1).
	TaxRate decimal.Decimal
	// Encoding is the decoding strategy for uploaded files.
	Encoding textdecode.Strategy
	// MaxReplacementRatio is the decode failure threshold.
	MaxReplacementRatio float64
	// AllowMissingLabels enables the raw field name fallback.
	AllowMissingLabels bool
	// TaxableMarkers are substrings of taxable account names.
	TaxableMarkers []string
	// TaxAdvantagedMarkers are substrings of tax-advantaged account names.
	TaxAdvantagedMarkers []string
	// Labels maps field names to display labels.
	Labels map[string]string
}

// NewConfig validates an ExternalConfig and returns a runtime Config.
func NewConfig(externalConfig ExternalConfig) (*Config, error) {
	if externalConfig.Version != "v1" {
		return nil, fmt.Errorf("unsupported config version %q, must be v1", externalConfig.Version)
	}
	if externalConfig.TaxRate == "" {
		return nil, errors.New("tax_rate is required")
	}
	taxRate, err := decimal.NewFromString(externalConfig.TaxRate)
	if err != nil {
		return nil, fmt.Errorf("invalid tax_rate %q: %w", externalConfig.TaxRate, err)
	}
	if taxRate.IsNegative() || taxRate.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return nil, fmt.Errorf("tax_rate %s must be at least 0 and less than 1", taxRate)
	}
	encoding := textdecode.StrategyAuto
	if externalConfig.Encoding != "" {
		encoding, err = textdecode.ParseStrategy(externalConfig.Encoding)
		if err != nil {
			return nil, err
		}
	}
	maxReplacementRatio := textdecode.DefaultMaxReplacementRatio
	if externalConfig.MaxReplacementRatio != nil {
		maxReplacementRatio = *externalConfig.MaxReplacementRatio
		if maxReplacementRatio <= 0 || maxReplacementRatio > 1 {
			return nil, fmt.Errorf("max_replacement_ratio %v must be greater than 0 and at most 1", maxReplacementRatio)
		}
	}
	if err := validateMarkers("accounts.taxable_markers", externalConfig.Accounts.TaxableMarkers); err != nil {
		return nil, err
	}
	if err := validateMarkers("accounts.tax_advantaged_markers", externalConfig.Accounts.TaxAdvantagedMarkers); err != nil {
		return nil, err
	}
	for _, marker := range externalConfig.Accounts.TaxableMarkers {
		if slices.Contains(externalConfig.Accounts.TaxAdvantagedMarkers, marker) {
			return nil, fmt.Errorf("account marker %q is both taxable and tax-advantaged", marker)
		}
	}
	if len(externalConfig.Labels) == 0 {
		return nil, errors.New("labels are required")
	}
	for name, label := range externalConfig.Labels {
		if label == "" {
			return nil, fmt.Errorf("label for field %q is empty", name)
		}
	}
	return &Config{
		TaxRate:              taxRate,
		Encoding:             encoding,
		MaxReplacementRatio:  maxReplacementRatio,
		AllowMissingLabels:   externalConfig.AllowMissingLabels,
		TaxableMarkers:       externalConfig.Accounts.TaxableMarkers,
		TaxAdvantagedMarkers: externalConfig.Accounts.TaxAdvantagedMarkers,
		Labels:               externalConfig.Labels,
	}, nil
}

// DefaultConfig returns the Config of a freshly initialized configuration file.
func DefaultConfig() (*Config, error) {
	return parseConfig([]byte(configTemplate))
}

// ConfigFilePath returns the path to the configuration file within the given config directory.
func ConfigFilePath(configDirPath string) string {
	return filepath.Join(configDirPath, ConfigFileName)
}

// ReadConfigFile reads and validates the configuration file at the given path.
// Returns a clear error message directing users to run "kabuctl config init" if the file is missing.
func ReadConfigFile(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("configuration file not found at %s, run \"kabuctl config init\" to create one", filePath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	config, err := parseConfig(data)
	if err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", filePath, err)
	}
	return config, nil
}

// InitConfig creates a new configuration file with a documented template.
// Creates the config directory if it does not exist.
// Returns the path to the created file, or an error if the file already exists.
func InitConfig(configDirPath string) (string, error) {
	filePath := ConfigFilePath(configDirPath)
	if _, err := os.Stat(filePath); err == nil {
		return "", fmt.Errorf("configuration file already exists: %s", filePath)
	}
	if err := os.MkdirAll(configDirPath, 0o755); err != nil {
		return "", fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(filePath, []byte(configTemplate), 0o644); err != nil {
		return "", err
	}
	return filePath, nil
}

// ValidateConfig reads and validates the configuration file at the given path.
//
// Unless allow_missing_labels is set, every field of every report kind must
// have a label.
func ValidateConfig(filePath string) error {
	config, err := ReadConfigFile(filePath)
	if err != nil {
		return err
	}
	if config.AllowMissingLabels {
		return nil
	}
	if missing := MissingLabels(config.Labels); len(missing) > 0 {
		return fmt.Errorf("%s: labels missing for fields: %s", filePath, strings.Join(missing, ", "))
	}
	return nil
}

// MissingLabels returns the sorted field names of all report kinds that have
// no label in labels.
func MissingLabels(labels map[string]string) []string {
	var missing []string
	for _, record := range []kabuctlrecord.Record{
		&kabuctlrecord.Dividend{},
		&kabuctlrecord.ProfitLoss{},
	} {
		for _, name := range kabuctlrecord.FieldNames(record) {
			if _, ok := labels[name]; !ok && !slices.Contains(missing, name) {
				missing = append(missing, name)
			}
		}
	}
	slices.Sort(missing)
	return missing
}

func parseConfig(data []byte) (*Config, error) {
	var externalConfig ExternalConfig
	if err := unmarshalYAMLStrict(data, &externalConfig); err != nil {
		return nil, err
	}
	return NewConfig(externalConfig)
}

func validateMarkers(key string, markers []string) error {
	if len(markers) == 0 {
		return fmt.Errorf("%s must not be empty", key)
	}
	for _, marker := range markers {
		if marker == "" {
			return fmt.Errorf("%s must not contain an empty marker", key)
		}
	}
	return nil
}

// unmarshalYAMLStrict unmarshals the data as YAML with strict field checking.
// If the data length is 0, this is a no-op.
func unmarshalYAMLStrict(data []byte, v any) error {
	if len(data) == 0 {
		return nil
	}
	yamlDecoder := yaml.NewDecoder(bytes.NewReader(data))
	// Reject unknown fields.
	yamlDecoder.KnownFields(true)
	if err := yamlDecoder.Decode(v); err != nil {
		return fmt.Errorf("could not unmarshal as YAML: %w", err)
	}
	return nil
}
