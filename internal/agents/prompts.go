package agents

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/soyeahso/tubecrew/internal/search"
)

// Prompt builders. The copy is domain text for a Chinese-language politics
// and economics channel.

func orAny(s string) string {
	if strings.TrimSpace(s) == "" {
		return "不限"
	}
	return s
}

func articlesPrompt(articles []search.Result, r TimeRange, start, end string) string {
	var sb strings.Builder
	sb.WriteString("你是一个为政经类YouTube频道策划选题的AI助手。\n")
	fmt.Fprintf(&sb, "根据以下%s（%s至%s）的新闻标题和链接，生成5个具备时效性、独特性和观众吸引力的视频选题建议：\n\n", r.Label(), start, end)
	sb.WriteString("新闻标题及链接：\n")
	for _, a := range articles {
		fmt.Fprintf(&sb, "- %s (%s)\n", a.Title, a.Link)
	}
	sb.WriteString(`
每个选题请包含：
1. 标题建议
2. 背景说明（包含信息的时效性）
3. 推荐关键词
4. 是否具争议性（是/否）
5. 参考新闻链接（列出所有相关的原始新闻链接）

提示：
- 近3个月的内容重点关注当前热点
- 近1年的内容关注重要趋势和发展
- 近2年的内容注重长期影响和历史对比
`)
	return sb.String()
}

const strategySections = `请提供以下内容：

1. 标题建议
   - 主标题（引人注目且SEO友好）
   - 2-3个备选标题
   - SEO优化建议

2. 内容策略
   - 视频内容重点
   - 目标受众定位
   - 建议时长范围
   - 必须覆盖的要点

3. 差异化建议
   - 同类内容分析
   - 独特视角
   - 深度拓展方向

4. 发布策略
   - 最佳发布时间
   - Tag建议（包含时效性标签）
   - 封面要点
   - 互动引导
`

func newsTrendPrompt(topic, category, query, start, end string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "你是一位资深的YouTube内容策略顾问，请基于%s至%s期间的新闻热点为以下主题提供专业的选题建议。\n\n", start, end)
	fmt.Fprintf(&sb, "【主题方向】\n%s\n\n", topic)
	fmt.Fprintf(&sb, "【新闻分类】\n%s\n\n", orAny(category))
	fmt.Fprintf(&sb, "【关键词】\n%s\n\n", orAny(query))
	fmt.Fprintf(&sb, "【时间范围】\n%s 至 %s\n\n", start, end)
	sb.WriteString(strategySections)
	sb.WriteString("\n请特别关注最近一个月内的热点新闻。以结构化的方式输出，并标注新闻的发布时间和时效性。\n")
	return sb.String()
}

func youtubeTrendPrompt(topic, category, region, start, end string, trending []string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "你是一位资深的YouTube内容策略顾问，请基于%s至%s期间的YouTube趋势为以下主题提供专业的选题建议。\n\n", start, end)
	fmt.Fprintf(&sb, "【主题方向】\n%s\n\n", topic)
	fmt.Fprintf(&sb, "【内容分类】\n%s\n\n", orAny(category))
	fmt.Fprintf(&sb, "【目标地区】\n%s\n\n", region)
	fmt.Fprintf(&sb, "【时间范围】\n%s 至 %s\n\n", start, end)
	if len(trending) > 0 {
		sb.WriteString("【当前热门视频】\n")
		for _, t := range trending {
			fmt.Fprintf(&sb, "- %s\n", t)
		}
		sb.WriteString("\n")
	}
	sb.WriteString(strategySections)
	sb.WriteString("\n请特别关注最近一个月内的热点话题和趋势。以结构化的方式输出，并标注信息的时效性。\n")
	return sb.String()
}

func researchPrompt(topic string, articles []search.Result) string {
	blocks := make([]string, 0, len(articles))
	for _, a := range articles {
		snippet := a.Snippet
		if snippet == "" {
			snippet = "无摘要"
		}
		blocks = append(blocks, fmt.Sprintf("标题: %s\n链接: %s\n摘要: %s", a.Title, a.Link, snippet))
	}

	var sb strings.Builder
	sb.WriteString("你是一名专业的研究分析师，负责为 YouTube 频道生成深度研究报告。请基于以下搜索结果进行分析：\n\n")
	fmt.Fprintf(&sb, "搜索主题：%s\n\n", topic)
	fmt.Fprintf(&sb, "搜索结果：\n%s\n\n", strings.Join(blocks, "\n\n"))
	sb.WriteString(`请提供一份结构化的研究报告，包含：

1. 主要发现：核心观点、各方立场对比、关键事实
2. 数据支持：重要统计数据、关键指标、市场或行业数据
3. 趋势分析：当前趋势、未来预测、潜在影响
4. 参考来源：按时间顺序列出引用的新闻来源并标注发布时间

请使用 Markdown 格式输出，内容客观专业，并注明信息的时效性。
`)
	return sb.String()
}

func scriptPrompt(title, summary, style, durationRange string) string {
	var sb strings.Builder
	sb.WriteString("你是一名专业政经类视频编剧，帮助YouTuber撰写可口语化的视频脚本。\n")
	fmt.Fprintf(&sb, "请根据以下【选题标题】和【研究摘要】，输出一个%s的口播脚本。风格参考：\"%s\"。\n", durationRange, style)
	sb.WriteString(`要求：
1. 口语化表达，避免书面腔；
2. 结构：引入、事件展开、双方观点、数据支撑、结尾总结；
3. 字数：10分钟以下1200-1500字，10-15分钟1500-2000字，15分钟以上2000-2500字；
4. 每段不超过500字，适合口播；
5. 最后一段引导观众评论和订阅。

`)
	fmt.Fprintf(&sb, "【选题标题】\n%s\n\n【研究摘要】\n%s\n\n请开始生成脚本：\n", title, summary)
	return sb.String()
}

func reviewPrompt(script, style string) string {
	var sb strings.Builder
	sb.WriteString("你是一名政经类内容的专业审稿员。请对以下脚本进行内容审查，并输出以下维度：\n")
	sb.WriteString("1. 逻辑合理性：是否存在跳跃推理或因果混乱；\n")
	sb.WriteString("2. 立场平衡性：是否存在明显倾向或激进语言；\n")
	sb.WriteString("3. 数据与事实准确性：是否存在来源不明或数据被误解；\n")
	sb.WriteString("4. 引用来源判断：是否真实、具权威；\n")
	fmt.Fprintf(&sb, "5. 改进建议：如何改写得更平衡可信，适合%s风格。\n\n", style)
	fmt.Fprintf(&sb, "【原始脚本】\n%s\n", script)
	return sb.String()
}

func rewritePrompt(script, review, style string) string {
	var sb strings.Builder
	sb.WriteString("你是一位政经类YouTube频道的AI编剧。请根据以下【脚本草稿】和【审稿建议】改写内容，使其更可信理性、风格统一。\n")
	sb.WriteString("要求：\n- 删除激进或绝对化措辞\n- 补充必要背景与因果逻辑\n- 表述口语化，适合口播\n")
	fmt.Fprintf(&sb, "- 风格参考：\"%s\"\n\n", style)
	fmt.Fprintf(&sb, "【审稿建议】\n%s\n\n【脚本草稿】\n%s\n\n请输出改写后的完整脚本。\n", review, script)
	return sb.String()
}

func thumbnailPrompt(title, excerpt, style string) string {
	var sb strings.Builder
	sb.WriteString("作为一位专业的YouTube缩略图设计师，请为以下视频设计一个引人注目的缩略图方案。\n\n")
	fmt.Fprintf(&sb, "【视频标题】\n%s\n\n【内容摘要】\n%s\n\n【风格要求】\n%s\n\n", title, excerpt, style)
	sb.WriteString(`请提供以下设计方案：
1. 构图布局：主体元素位置、文字布局、背景处理
2. 配色方案：主色调、辅助色、文字颜色、背景色
3. 关键视觉元素：图标或符号、图片素材、特效处理
4. 文字处理：主标题、副标题、字体推荐、大小层级
5. 优化建议：点击率优化、A/B测试方案、移动端适配

请以JSON格式输出，便于后续处理。
`)
	return sb.String()
}

func seoPrompt(title, description, transcript, category string) string {
	var sb strings.Builder
	sb.WriteString("作为YouTube SEO专家，请为以下视频内容生成优化的元数据。\n\n")
	fmt.Fprintf(&sb, "【视频标题】\n%s\n\n【视频描述】\n%s\n\n", title, description)
	fmt.Fprintf(&sb, "【视频文字稿】\n%s...\n\n【视频类别】\n%s\n\n", truncateRunes(transcript, 500), category)
	sb.WriteString(`请提供以下SEO优化建议：
1. SEO标题：主标题（考虑关键词）、3-5个备选标题、优化说明
2. 描述文案：首段重点、关键信息点、时间戳建议、CTA设计
3. 标签组合：主要标签5-7个、相关标签10-15个、趋势标签
4. 分类设置：主分类、次分类、播放列表建议
5. 发布优化：最佳发布时间、首发推广、互动引导

请以JSON格式输出，包含所有必要的元数据字段。
`)
	return sb.String()
}

func optimizePrompt(metrics, audience, metadata map[string]any) string {
	var sb strings.Builder
	sb.WriteString("作为YouTube频道优化专家，请根据以下数据分析视频表现并提供优化建议。\n\n")
	fmt.Fprintf(&sb, "【性能指标】\n%s\n\n", compactJSON(metrics))
	fmt.Fprintf(&sb, "【受众数据】\n%s\n\n", compactJSON(audience))
	fmt.Fprintf(&sb, "【视频元数据】\n%s\n\n", compactJSON(metadata))
	sb.WriteString(`请提供以下方面的分析和建议：
1. 整体表现：关键指标评估、与行业标准对比、异常数据
2. 受众分析：核心受众画像、观看行为、互动模式
3. 内容优化：标题和缩略图、视频节奏、关键时间点
4. 涨粉策略：订阅增长、粉丝互动、留存优化
5. 变现建议：收益方向、广告投放、合作机会

请输出详细的优化报告，重点关注可执行的具体建议。
`)
	return sb.String()
}

func compactJSON(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(data)
}
