package policy

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ruleFile 是规则扩展文件的 YAML 结构。
type ruleFile struct {
	Rules []Rule `yaml:"rules"`
}

// LoadRules 读取 YAML 规则文件并与内置规则集合并（扩展文件追加在后）。
// path 为空串时仅返回内置规则集。
func LoadRules(path string) ([]Rule, error) {
	rules := defaultRules()
	if path == "" {
		return rules, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read policy rule file: %w", err)
	}

	var f ruleFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse policy rule file: %w", err)
	}

	return append(rules, f.Rules...), nil
}
