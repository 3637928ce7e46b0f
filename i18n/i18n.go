// Package i18n holds the localized string tables used by the report
// renderer. Lookups never fail: unknown languages fall back to the default
// table and unknown keys are returned verbatim.
package i18n

// DefaultLanguage is the locale used when the requested one is unknown.
const DefaultLanguage = "zh-CN"

var tables = map[string]map[string]string{
	"zh-CN": {
		"title":             "测试报告",
		"start_time":        "开始时间",
		"duration":          "运行时长",
		"status":            "状态",
		"tester":            "测试人",
		"test_details":      "测试详情",
		"summary":           "总结",
		"failed":            "失败",
		"all":               "全部",
		"test_suite":        "测试套件/测试用例",
		"total":             "总数",
		"pass":              "通过",
		"fail":              "失败",
		"error":             "错误",
		"skip":              "跳过",
		"view":              "查看",
		"detail":            "详情",
		"total_summary":     "总计",
		"execution_details": "执行详情",
		"copy":              "复制",
		"copied":            "已复制",
		"close":             "关闭",
		"no_output":         "无输出信息",
		"pass_rate":         "通过率",
		"test_execution":    "测试执行情况",
		"powered_by":        "由 htmlreport 驱动",
		"generated_on":      "生成于",
		"toggle_theme":      "切换主题",
	},
	"en-US": {
		"title":             "Test Report",
		"start_time":        "Start Time",
		"duration":          "Duration",
		"status":            "Status",
		"tester":            "Tester",
		"test_details":      "Test Details",
		"summary":           "Summary",
		"failed":            "Failed",
		"all":               "All",
		"test_suite":        "Test Suite / Test Case",
		"total":             "Total",
		"pass":              "Pass",
		"fail":              "Fail",
		"error":             "Error",
		"skip":              "Skip",
		"view":              "View",
		"detail":            "Detail",
		"total_summary":     "Total",
		"execution_details": "Execution Details",
		"copy":              "Copy",
		"copied":            "Copied",
		"close":             "Close",
		"no_output":         "No output",
		"pass_rate":         "Pass Rate",
		"test_execution":    "Test Execution",
		"powered_by":        "Powered by htmlreport",
		"generated_on":      "Generated on",
		"toggle_theme":      "Toggle Theme",
	},
}

// Text returns the localized string for key in the given language. Unknown
// languages fall back to DefaultLanguage; unknown keys return the key itself.
func Text(key, language string) string {
	table, ok := tables[language]
	if !ok {
		table = tables[DefaultLanguage]
	}
	if s, ok := table[key]; ok {
		return s
	}
	// A key may exist only in the default table.
	if s, ok := tables[DefaultLanguage][key]; ok {
		return s
	}
	return key
}

// Supported reports whether language has its own string table.
func Supported(language string) bool {
	_, ok := tables[language]
	return ok
}

// Languages returns the list of supported language codes.
func Languages() []string {
	return []string{"zh-CN", "en-US"}
}
