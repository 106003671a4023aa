package generator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryFor(t *testing.T) {
	tests := map[string]Category{
		"屏幕尺寸":   CategoryDisplay,
		"分辨率":    CategoryDisplay,
		"HDR格式":  CategoryDisplay,
		"音响功率":   CategoryAudio,
		"杜比全景声":  CategoryAudio,
		"运行内存":   CategoryPerformance,
		"CPU":    CategoryPerformance,
		"HDMI接口": CategoryConnectivity,
		"蓝牙版本":   CategoryConnectivity,
		"操作系统":   CategorySmart,
		"整机重量":   CategoryDesign,
		"保修期":    CategoryOther,
	}
	for name, want := range tests {
		assert.Equal(t, want, CategoryFor(name), name)
	}
}

func TestGroupByCategory(t *testing.T) {
	groups := GroupByCategory(ParameterSet{
		"刷新率":  "144Hz",
		"分辨率":  "4K",
		"保修期":  "3年",
		"运行内存": "4GB",
	})

	require.Len(t, groups, 3)
	assert.Equal(t, CategoryGroup{Category: CategoryDisplay, Names: []string{"分辨率", "刷新率"}}, groups[0])
	assert.Equal(t, CategoryPerformance, groups[1].Category)
	assert.Equal(t, CategoryOther, groups[2].Category)

	assert.Empty(t, GroupByCategory(nil))
}
