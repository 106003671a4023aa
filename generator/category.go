package generator

import (
	"sort"
	"strings"
)

// Category groups parameter names for display. It is never used for validation.
type Category string

const (
	CategoryDisplay      Category = "显示"
	CategoryAudio        Category = "音频"
	CategoryPerformance  Category = "内存与性能"
	CategoryConnectivity Category = "接口与连接"
	CategorySmart        Category = "智能功能"
	CategoryDesign       Category = "外观与规格"
	CategoryOther        Category = "其他"
)

// categoryOrder is also the match priority.
var categoryOrder = []Category{
	CategoryDisplay,
	CategoryAudio,
	CategoryPerformance,
	CategoryConnectivity,
	CategorySmart,
	CategoryDesign,
	CategoryOther,
}

var categoryKeywords = map[Category][]string{
	CategoryDisplay: {
		"屏", "分辨率", "刷新", "亮度", "面板", "hdr", "背光", "分区", "色域", "色深",
		"对比度", "画质", "mini led", "oled", "量子点", "可视角", "响应时间", "杜比视界",
	},
	CategoryAudio: {
		"音", "声道", "扬声器", "喇叭", "功率", "杜比全景声", "dts", "低音",
	},
	CategoryPerformance: {
		"内存", "存储", "ram", "rom", "处理器", "cpu", "gpu", "芯片", "核", "emmc",
	},
	CategoryConnectivity: {
		"hdmi", "usb", "wifi", "wi-fi", "蓝牙", "网口", "接口", "earc", "av", "光纤",
	},
	CategorySmart: {
		"系统", "语音", "投屏", "ai", "摄像头", "远场", "遥控", "app",
	},
	CategoryDesign: {
		"尺寸", "重量", "厚度", "颜色", "底座", "壁挂", "外观", "边框", "功耗", "电源",
	},
}

// CategoryFor 按关键词给参数名归类，匹配不到时归为"其他"。
func CategoryFor(name string) Category {
	lower := strings.ToLower(name)
	for _, c := range categoryOrder {
		for _, kw := range categoryKeywords[c] {
			if strings.Contains(lower, kw) {
				return c
			}
		}
	}
	return CategoryOther
}

// CategoryGroup lists the parameter names that fell into one category.
type CategoryGroup struct {
	Category Category `json:"category"`
	Names    []string `json:"names"`
}

// GroupByCategory returns non-empty groups in display order, names sorted.
func GroupByCategory(params ParameterSet) []CategoryGroup {
	buckets := make(map[Category][]string)
	for name := range params {
		c := CategoryFor(name)
		buckets[c] = append(buckets[c], name)
	}

	groups := make([]CategoryGroup, 0, len(buckets))
	for _, c := range categoryOrder {
		names := buckets[c]
		if len(names) == 0 {
			continue
		}
		sort.Strings(names)
		groups = append(groups, CategoryGroup{Category: c, Names: names})
	}
	return groups
}
