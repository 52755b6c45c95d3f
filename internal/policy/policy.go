// Package policy 提供内容合规过滤。
// 过滤器是纯函数式的判定：给定文本返回是否违规及命中的规则说明，
// 不持有状态、不产生副作用。写入路径统一通过 Filter 接口注入，
// 以便在关闭审核的实例中替换为直通实现。
package policy

import (
	"fmt"
	"regexp"
	"strings"
)

// Filter 判定一段文本是否违反内容策略。
type Filter interface {
	// Violates 返回文本是否违规。违规时 reason 为命中规则的人类可读说明。
	// 空文本（或仅空白）视为违规。
	Violates(text string) (bool, string)
}

// AllowAll 是直通过滤器，用于未启用审核的实例。任何文本都不违规。
type AllowAll struct{}

// Violates 恒返回不违规。
func (AllowAll) Violates(string) (bool, string) { return false, "" }

// Rule 表示一类违规模式：一个说明标签与若干待匹配模式。
// 模式按正则语义编译，整组合并为一个 (?i) 交替式。
type Rule struct {
	Label    string   `yaml:"label"`
	Patterns []string `yaml:"patterns"`
}

// compiledRule 保存编译后的单条规则。
type compiledRule struct {
	label   string
	pattern *regexp.Regexp
}

// RuleFilter 基于编译后的规则集合判定违规。
type RuleFilter struct {
	rules []compiledRule
}

// defaultRules 是内置规则集：现实实体与敏感题材。
// 虚拟新闻的内容不得指向现实世界，故地名、人名、国家名均在禁用之列。
func defaultRules() []Rule {
	return []Rule{
		{
			Label: "现实地名或国家",
			Patterns: []string{
				"北京", "上海", "广州", "深圳", "香港", "台湾",
				"中国", "美国", "日本", "俄罗斯", "英国", "法国", "德国", "韩国", "印度",
				"纽约", "伦敦", "东京", "巴黎", "莫斯科", "华盛顿",
				"America", "China", "Japan", "Russia",
			},
		},
		{
			Label: "现实人物",
			Patterns: []string{
				"拜登", "普京", "马斯克", "特朗普",
				"Biden", "Putin", "Musk", "Trump",
			},
		},
		{
			Label: "暴力或恐怖主义",
			Patterns: []string{
				"恐怖主义", "恐怖袭击", "恐袭", "炸弹", "屠杀", "血腥",
				"terrorism", "terrorist", "massacre",
			},
		},
		{
			Label: "色情内容",
			Patterns: []string{
				"色情", "淫秽", "裸照",
				"porn", "pornographic",
			},
		},
	}
}

// NewRuleFilter 编译规则集生成 RuleFilter。
// rules 为空时使用内置规则集。
func NewRuleFilter(rules []Rule) (*RuleFilter, error) {
	if len(rules) == 0 {
		rules = defaultRules()
	}

	compiled := make([]compiledRule, 0, len(rules))
	for _, r := range rules {
		if len(r.Patterns) == 0 {
			continue
		}
		expr := "(?i)(?:" + strings.Join(r.Patterns, "|") + ")"
		re, err := regexp.Compile(expr)
		if err != nil {
			return nil, fmt.Errorf("compile rule %q: %w", r.Label, err)
		}
		compiled = append(compiled, compiledRule{label: r.Label, pattern: re})
	}

	return &RuleFilter{rules: compiled}, nil
}

// Violates 依次匹配全部规则，命中任意一条即违规。
// 空文本视为违规（缺失内容不允许进入发布路径）。
func (f *RuleFilter) Violates(text string) (bool, string) {
	if strings.TrimSpace(text) == "" {
		return true, "内容为空"
	}
	for _, r := range f.rules {
		if loc := r.pattern.FindString(text); loc != "" {
			return true, fmt.Sprintf("%s（命中: %s）", r.label, loc)
		}
	}
	return false, ""
}

var (
	_ Filter = (*RuleFilter)(nil)
	_ Filter = AllowAll{}
)
