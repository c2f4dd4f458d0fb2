package gdpr

import (
	"regexp"
	"sort"

	"github.com/cloudzeus/prismafiles-sub000/internal/models"
	"github.com/cloudzeus/prismafiles-sub000/internal/pkg/utils"
)

// 个人数据类别标签
const (
	CategoryEmail      = "email"
	CategoryPhone      = "phone"
	CategoryTaxID      = "tax-id"
	CategoryVatNumber  = "vat-number"
	CategoryIBAN       = "iban"
	CategoryNationalID = "national-id"
	CategoryCreditCard = "credit-card"
	CategoryUnreadable = "unreadable-content"
)

// 命中即判定为 critical 的类别
var criticalCategories = map[string]bool{
	CategoryTaxID:      true,
	CategoryNationalID: true,
	CategoryCreditCard: true,
	CategoryIBAN:       true,
}

// ScanInput 是一次扫描的输入
type ScanInput struct {
	FilePath string
	FileName string
	FileType string
	Content  []byte
}

// Classification 是扫描的纯函数输出，持久化由调用方负责
type Classification struct {
	HasPersonalData   bool
	PersonalDataTypes []string
	RiskLevel         string
	ScanErrors        []string
}

// detectionRule 单条检测规则，Validate 为可选的二次校验（如信用卡 Luhn）
type detectionRule struct {
	Category string
	Pattern  *regexp.Regexp
	Validate func(match string) bool
}

// 规则在包加载时编译一次
var detectionRules = []detectionRule{
	{
		Category: CategoryEmail,
		Pattern:  regexp.MustCompile(`(?i)\b[a-z0-9._%+-]+@[a-z0-9.-]+\.[a-z]{2,}\b`),
	},
	{
		Category: CategoryPhone,
		Pattern:  regexp.MustCompile(`(?:\+|00)\d{1,3}[\s-]?\d{6,12}\b`),
	},
	{
		// 希腊 ΑΦΜ：9 位数字，要求上下文关键字避免误报普通数字
		Category: CategoryTaxID,
		Pattern:  regexp.MustCompile(`(?i)(?:ΑΦΜ|AFM|TIN|tax\s*id)[:\s]*\d{9}\b`),
	},
	{
		Category: CategoryVatNumber,
		Pattern:  regexp.MustCompile(`\bEL\d{9}\b`),
	},
	{
		Category: CategoryIBAN,
		Pattern:  regexp.MustCompile(`\b[A-Z]{2}\d{2}[A-Z0-9]{11,30}\b`),
	},
	{
		// 身份证件号：两个大写字母（可含希腊字母）后接 6 位数字
		Category: CategoryNationalID,
		Pattern:  regexp.MustCompile(`\b[A-ZΑ-Ω]{2}[\s-]?\d{6}\b`),
	},
	{
		Category: CategoryCreditCard,
		Pattern:  regexp.MustCompile(`\b(?:\d[ -]?){13,19}\b`),
		Validate: luhnValid,
	},
}

// Scanner 基于规则表对文件内容做个人数据分类
type Scanner struct{}

func NewScanner() *Scanner {
	return &Scanner{}
}

// Classify 对内容执行所有规则并推导风险等级
// 内容无法解码时保守处理：按含个人数据、高风险分类，错误写入 ScanErrors
func (s *Scanner) Classify(input ScanInput) Classification {
	text, err := utils.DecodeText(input.Content)
	if err != nil {
		return Classification{
			HasPersonalData:   true,
			PersonalDataTypes: []string{CategoryUnreadable},
			RiskLevel:         models.RiskHigh,
			ScanErrors:        []string{err.Error()},
		}
	}

	matched := make(map[string]bool)
	for _, rule := range detectionRules {
		hits := rule.Pattern.FindAllString(text, -1)
		for _, hit := range hits {
			if rule.Validate != nil && !rule.Validate(hit) {
				continue
			}
			matched[rule.Category] = true
			break
		}
	}

	categories := make([]string, 0, len(matched))
	for category := range matched {
		categories = append(categories, category)
	}
	sort.Strings(categories) // 输出顺序稳定，报告聚合依赖确定性

	return Classification{
		HasPersonalData:   len(categories) > 0,
		PersonalDataTypes: categories,
		RiskLevel:         deriveRiskLevel(categories),
	}
}

// deriveRiskLevel 风险等级由命中的类别唯一确定
// 命中证件/税务/银行类直接 critical；3 类及以上 high；有命中 medium；否则 low
func deriveRiskLevel(categories []string) string {
	for _, category := range categories {
		if criticalCategories[category] {
			return models.RiskCritical
		}
	}
	switch {
	case len(categories) >= 3:
		return models.RiskHigh
	case len(categories) >= 1:
		return models.RiskMedium
	default:
		return models.RiskLow
	}
}

// luhnValid 信用卡号 Luhn 校验，过滤规则命中的普通长数字
func luhnValid(match string) bool {
	var digits []int
	for _, r := range match {
		if r >= '0' && r <= '9' {
			digits = append(digits, int(r-'0'))
		}
	}
	if len(digits) < 13 || len(digits) > 19 {
		return false
	}
	sum := 0
	double := false
	for i := len(digits) - 1; i >= 0; i-- {
		d := digits[i]
		if double {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		double = !double
	}
	return sum%10 == 0
}
