package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cognicore/examdex/pkg/examdex/internalerr"
	"github.com/cognicore/examdex/pkg/examdex/record"
)

// Config holds build-time settings
type Config struct {
	Layout      Layout            `yaml:"layout"`
	Defaults    Defaults          `yaml:"defaults"`
	Concurrency int               `yaml:"concurrency"`
	TitleLength int               `yaml:"title_length"`
	InferTags   bool              `yaml:"infer_tags"`
	Chapters    map[string]string `yaml:"chapters"` // chapter code → chapter name
	Taxonomy    []TaxonomyRule    `yaml:"taxonomy"`
}

// Layout maps each record kind to its directory under the content root
type Layout struct {
	Quiz          string `yaml:"quiz"`
	CaseAnalysis  string `yaml:"case_analysis"`
	EssayGuidance string `yaml:"essay_guidance"`
}

// Dir returns the layout directory for a kind
func (l Layout) Dir(k record.Kind) string {
	switch k {
	case record.KindQuiz:
		return l.Quiz
	case record.KindCaseAnalysis:
		return l.CaseAnalysis
	case record.KindEssayGuidance:
		return l.EssayGuidance
	}
	return ""
}

// KindDefaults is the {field: default} table applied when front-matter omits a key
type KindDefaults struct {
	Type          string `yaml:"type"`
	Difficulty    string `yaml:"difficulty"`
	Points        int    `yaml:"points"`
	EstimatedTime int    `yaml:"estimated_time"`
}

// Defaults holds one defaults table per record kind
type Defaults struct {
	Quiz          KindDefaults `yaml:"quiz"`
	CaseAnalysis  KindDefaults `yaml:"case_analysis"`
	EssayGuidance KindDefaults `yaml:"essay_guidance"`
}

// For returns the defaults table for a kind
func (d Defaults) For(k record.Kind) KindDefaults {
	switch k {
	case record.KindCaseAnalysis:
		return d.CaseAnalysis
	case record.KindEssayGuidance:
		return d.EssayGuidance
	}
	return d.Quiz
}

// TaxonomyRule links body keywords to the tags and titles they imply
type TaxonomyRule struct {
	Keywords  []string `yaml:"keywords"`
	Knowledge []string `yaml:"knowledge"`
	Chapter   string   `yaml:"chapter"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Layout: Layout{
			Quiz:          "04-练习题库/questions",
			CaseAnalysis:  "02-案例分析",
			EssayGuidance: "03-论文指导",
		},
		Defaults: Defaults{
			Quiz:          KindDefaults{Type: "single-choice", Points: 1, EstimatedTime: 60},
			CaseAnalysis:  KindDefaults{Difficulty: "medium", EstimatedTime: 30},
			EssayGuidance: KindDefaults{Difficulty: "medium", EstimatedTime: 45},
		},
		Concurrency: 4,
		TitleLength: 30,
		Chapters: map[string]string{
			"ch01": "计算机系统基础",
			"ch02": "信息系统基础",
			"ch03": "信息安全技术",
			"ch04": "软件工程基础",
			"ch05": "数据库设计基础",
			"ch06": "系统架构设计基础",
			"ch07": "系统质量属性与架构评估",
			"ch08": "软件可靠性技术",
			"ch09": "软件架构演化和维护",
			"ch10": "未来信息综合技术",
			"ch11": "标准化与知识产权",
			"ch12": "应用数学",
			"ch13": "专业英语",
		},
		Taxonomy: DefaultTaxonomy(),
	}
}

// DefaultTaxonomy returns the built-in keyword table. Order matters: the
// first matching rule wins for titles and chapters.
func DefaultTaxonomy() []TaxonomyRule {
	return []TaxonomyRule{
		{Keywords: []string{"操作系统", "内存", "页式", "进程", "死锁", "时间片"}, Knowledge: []string{"操作系统", "内存管理", "进程管理"}, Chapter: "ch01"},
		{Keywords: []string{"网络", "协议", "TCP", "UDP", "传输层", "FTP", "SMTP", "ICMP"}, Knowledge: []string{"计算机网络", "网络协议"}, Chapter: "ch03"},
		{Keywords: []string{"NFS", "Telnet", "调制解调"}, Knowledge: []string{"计算机网络"}, Chapter: "ch03"},
		{Keywords: []string{"数据库", "SQL", "范式", "关系"}, Knowledge: []string{"数据库系统", "数据库设计"}, Chapter: "ch05"},
		{Keywords: []string{"软件工程", "CMMI", "测试", "成熟度"}, Knowledge: []string{"软件工程", "项目管理"}, Chapter: "ch04"},
		{Keywords: []string{"架构", "设计模式", "组件", "仓库", "风格"}, Knowledge: []string{"软件架构", "架构设计"}, Chapter: "ch06"},
		{Keywords: []string{"安全", "机密性", "完整性", "不可否认", "可控性", "治理"}, Knowledge: []string{"信息安全", "数据安全"}, Chapter: "ch11"},
		{Keywords: []string{"易用性", "可用性", "性能"}, Knowledge: []string{"系统质量", "非功能需求"}, Chapter: "ch07"},
		{Keywords: []string{"通信", "信道", "双工"}, Knowledge: []string{"通信技术"}, Chapter: "ch03"},
		{Keywords: []string{"保密", "机密级", "国家秘密"}, Knowledge: []string{"信息安全", "法律法规"}, Chapter: "ch11"},
	}
}

// Load reads a YAML file over the built-in defaults
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", internalerr.ErrInvalidConfig, path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// taxonomyFile is the on-disk shape of a standalone taxonomy
type taxonomyFile struct {
	Rules []TaxonomyRule `yaml:"rules"`
}

// LoadTaxonomy loads a keyword table from a YAML file
func LoadTaxonomy(path string) ([]TaxonomyRule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var tf taxonomyFile
	if err := yaml.Unmarshal(data, &tf); err != nil {
		return nil, err
	}

	return tf.Rules, nil
}

// Validate checks the configuration for values the build cannot run with
func (c *Config) Validate() error {
	if c.Concurrency < 1 {
		return fmt.Errorf("%w: concurrency must be >= 1, got %d", internalerr.ErrInvalidConfig, c.Concurrency)
	}
	if c.TitleLength < 1 {
		return fmt.Errorf("%w: title_length must be >= 1, got %d", internalerr.ErrInvalidConfig, c.TitleLength)
	}
	for _, k := range []record.Kind{record.KindQuiz, record.KindCaseAnalysis, record.KindEssayGuidance} {
		if strings.TrimSpace(c.Layout.Dir(k)) == "" {
			return fmt.Errorf("%w: layout for %s is empty", internalerr.ErrInvalidConfig, k)
		}
	}
	for i, rule := range c.Taxonomy {
		if len(rule.Keywords) == 0 {
			return fmt.Errorf("%w: taxonomy rule %d has no keywords", internalerr.ErrInvalidConfig, i)
		}
	}
	return nil
}
