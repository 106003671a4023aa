package generator

import (
	"fmt"
	"strings"
)

// Direction 润色方向。
type Direction struct {
	Key         string `json:"key"`
	Label       string `json:"label"`
	Description string `json:"description"`
}

// StructureTemplate shapes polished copy: Sections and Guidance are index-aligned.
type StructureTemplate struct {
	Sections []string
	Guidance []string
	Example  string
}

type directionEntry struct {
	Direction
	template StructureTemplate
}

var directions = []directionEntry{
	{
		Direction: Direction{
			Key:         "seeding",
			Label:       "种草安利",
			Description: "以真实用户口吻分享使用体验，突出最打动人的卖点，语气亲切、有感染力，激发购买欲。",
		},
		template: StructureTemplate{
			Sections: []string{"抓眼开头", "核心卖点", "使用体验", "行动号召"},
			Guidance: []string{
				"用一句带情绪的话或一个反差场景开头，3 秒内抓住注意力。",
				"挑 2~3 个最有差异化的参数卖点，用大白话解释它带来的好处。",
				"描述自己真实使用时的感受和细节，避免空洞夸赞。",
				"自然收尾，引导收藏、评论或去了解更多，不要生硬喊单。",
			},
			Example: "谁懂啊！换了这台电视之后周末根本不想出门😭\n" +
				"65 英寸大屏 + 144Hz 高刷，看球赛一点都不拖影……\n" +
				"晚上关灯看电影，暗部细节清清楚楚，音响也够震撼。\n" +
				"想换电视的姐妹先收藏，评论区聊聊你最在意啥～",
		},
	},
	{
		Direction: Direction{
			Key:         "review",
			Label:       "专业测评",
			Description: "以测评博主视角客观拆解参数，数据说话，给出优缺点和适合人群。",
		},
		template: StructureTemplate{
			Sections: []string{"测评结论", "参数拆解", "实测表现", "适合人群"},
			Guidance: []string{
				"开门见山给出一句话结论，让读者立刻知道值不值。",
				"按画质、音质、性能等维度逐项解读关键参数，参数必须准确。",
				"结合日常观影、游戏、投屏等场景说明实际表现。",
				"说明适合谁、不适合谁，保持客观可信。",
			},
			Example: "【一句话结论】同价位画质天花板，游戏党闭眼入。\n" +
				"画质：4K + 量子点，色域覆盖广；刷新率 144Hz……\n" +
				"实测：PS5 开 120 帧无压力，HDMI 2.1 接口够用……\n" +
				"适合：客厅影音、主机玩家；不适合：预算很紧的小卧室。",
		},
	},
	{
		Direction: Direction{
			Key:         "scene",
			Label:       "场景生活",
			Description: "把产品放进具体生活场景里讲故事，用画面感带出参数价值。",
		},
		template: StructureTemplate{
			Sections: []string{"场景引入", "场景中的亮点", "情绪升华"},
			Guidance: []string{
				"描绘一个具体的生活时刻（周末家庭影院、朋友聚会、深夜追剧）。",
				"在场景里自然带出参数带来的体验提升，不要罗列参数表。",
				"落到生活方式和情绪价值上，引发共鸣。",
			},
			Example: "周五晚上，外卖到了，灯一关，投影级的大屏亮起来……\n" +
				"杜比全景声一响，整个客厅都是电影院的感觉。\n" +
				"原来幸福感就是把喜欢的东西放在家里最好的位置。",
		},
	},
	{
		Direction: Direction{
			Key:         "compare",
			Label:       "选购攻略",
			Description: "以选购指南形式讲清楚怎么挑，突出本产品在关键指标上的优势。",
		},
		template: StructureTemplate{
			Sections: []string{"选购痛点", "关键指标", "本款表现", "购买建议"},
			Guidance: []string{
				"点出大家买电视时最常纠结的问题。",
				"讲清楚真正该看的 3~4 个指标以及为什么重要。",
				"对照这些指标说明本款的参数表现，数值必须与参数一致。",
				"给出明确、可执行的建议，例如尺寸与观看距离的搭配。",
			},
			Example: "买电视别只看尺寸！这 4 个参数才决定体验👇\n" +
				"1. 刷新率：看球玩游戏至少 120Hz……\n" +
				"这款 144Hz + 4GB 内存，流畅度在同价位很能打……\n" +
				"客厅 3 米观看距离，建议直接上 75 英寸。",
		},
	},
	{
		Direction: Direction{
			Key:         "promo",
			Label:       "促销活动",
			Description: "围绕限时优惠制造紧迫感，清楚交代价格亮点和产品价值。",
		},
		template: StructureTemplate{
			Sections: []string{"优惠信息", "值得买的理由", "紧迫感收尾"},
			Guidance: []string{
				"开头直接抛出活动力度，信息要清晰。",
				"用 2~3 个参数卖点说明为什么这个价格很划算。",
				"提示活动时效或库存，引导尽快行动，语气不要夸张失真。",
			},
			Example: "大促价直降！这台 4K 高刷电视终于等到了🔥\n" +
				"144Hz 高刷 + 杜比视界，这个价位真的少见……\n" +
				"活动只到周日，想换电视的抓紧冲！",
		},
	},
}

// Directions 按注册顺序返回全部润色方向。
func Directions() []Direction {
	out := make([]Direction, len(directions))
	for i, d := range directions {
		out[i] = d.Direction
	}
	return out
}

// LookupDirection reports the label and description for key.
func LookupDirection(key string) (Direction, bool) {
	for _, d := range directions {
		if d.Key == key {
			return d.Direction, true
		}
	}
	return Direction{}, false
}

// TemplateFor returns a copy of the structure template registered for key.
func TemplateFor(key string) (StructureTemplate, bool) {
	for _, d := range directions {
		if d.Key == key {
			t := d.template
			return StructureTemplate{
				Sections: append([]string(nil), t.Sections...),
				Guidance: append([]string(nil), t.Guidance...),
				Example:  t.Example,
			}, true
		}
	}
	return StructureTemplate{}, false
}

// RenderStructure 把结构模板渲染成编号大纲，并附参考示例，用作润色 prompt 的 structure 槽位。
func RenderStructure(key string) (string, bool) {
	t, ok := TemplateFor(key)
	if !ok {
		return "", false
	}

	var sb strings.Builder
	sb.WriteString("你必须按照以下结构组织文案：\n\n")
	for i, section := range t.Sections {
		sb.WriteString(fmt.Sprintf("### %d. %s\n", i+1, section))
		sb.WriteString(t.Guidance[i])
		sb.WriteString("\n\n")
	}
	sb.WriteString("\n## 参考示例\n")
	sb.WriteString(t.Example)
	return sb.String(), true
}
