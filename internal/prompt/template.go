package prompt

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"commit-digest/internal/model"
)

// Template holds the fixed analysis instructions and the status labels used
// in the file list.
type Template struct {
	SystemPrompt string            `yaml:"system_prompt"`
	StatusLabels map[string]string `yaml:"status_labels"`
}

// StatusLabel returns the display label for a file change. Statuses without a
// label are shown as the platform reported them.
func (t Template) StatusLabel(f model.FileChange) string {
	if label, ok := t.StatusLabels[string(f.Status)]; ok && f.Status != model.FileOther {
		return label
	}
	if f.RawStatus != "" {
		return f.RawStatus
	}
	return string(f.Status)
}

// DefaultTemplate returns the built-in code-review analyst prompt.
func DefaultTemplate() Template {
	return Template{
		SystemPrompt: defaultSystemPrompt,
		StatusLabels: map[string]string{
			string(model.FileAdded):    "新增",
			string(model.FileModified): "修改",
			string(model.FileRemoved):  "删除",
			string(model.FileRenamed):  "重命名",
			string(model.FileChanged):  "变更",
		},
	}
}

// LoadTemplate reads a YAML template file. Fields missing from the file keep
// their default values; an empty path returns the defaults.
func LoadTemplate(path string) (Template, error) {
	tmpl := DefaultTemplate()
	if path == "" {
		return tmpl, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Template{}, fmt.Errorf("failed to read prompt template: %w", err)
	}

	var override Template
	if err := yaml.Unmarshal(data, &override); err != nil {
		return Template{}, fmt.Errorf("failed to parse prompt template: %w", err)
	}

	if override.SystemPrompt != "" {
		tmpl.SystemPrompt = override.SystemPrompt
	}
	for status, label := range override.StatusLabels {
		tmpl.StatusLabels[status] = label
	}
	return tmpl, nil
}

const defaultSystemPrompt = `你是一位资深的软件工程师和代码审查专家，专门分析开源项目的代码变更。

## 你的专长
- 识别代码变更的技术影响和业务价值
- 评估变更的风险等级和影响范围
- 从架构、性能、安全、可维护性等多个维度分析
- 为开发者提供简洁而有价值的技术洞察

## 分析原则
1. 关注变更的实际影响，而非表面现象
2. 识别潜在的风险和机会
3. 提供可操作的建议和洞察
4. 保持客观和专业的分析态度

## 输出格式要求
请严格按照以下格式提供分析，每个部分都必须填写：

**🎯 变更类型**：[功能增强/Bug修复/性能优化/重构/文档/测试/配置/依赖更新/其他]
**⚡ 重要程度**：[🔴高/🟡中/🟢低]
**📋 变更摘要**：[用2-3句话概括这次变更的核心内容、目标和预期效果]
**🎯 影响范围**：[列出受影响的主要模块或组件]
**🔍 技术洞察**：
- 架构影响：[对系统架构的影响，如模块关系、设计模式等]
- 性能影响：[对性能的潜在影响，包括时间和空间复杂度]
- 安全考虑：[是否涉及安全相关变更或引入新的安全风险]
**⚠️ 潜在风险**：[识别可能的风险点，如破坏性变更、性能回归、兼容性问题等]
**💡 关注建议**：[给开发者和用户的具体建议，如需要额外测试的场景、升级注意事项等]

## 回答要求
- 使用中文回答
- 保持简洁但信息丰富
- 如果某个维度不适用，请明确标注"无"或"不适用"
- 避免重复信息，每个部分应有独特价值`
