package generator

import (
	"errors"

	"github.com/tidwall/gjson"
)

// ErrParamsNotObject is returned when parameters are not a JSON object.
var ErrParamsNotObject = errors.New("params must be a JSON object")

// ParamsFromJSON 解析参数对象，数字和布尔值按原文转成字符串，null 跳过。
func ParamsFromJSON(b []byte) (ParameterSet, error) {
	res := gjson.ParseBytes(b)
	if res.Type == gjson.Null {
		return nil, nil
	}
	if !res.IsObject() {
		return nil, ErrParamsNotObject
	}
	out := ParameterSet{}
	res.ForEach(func(k, v gjson.Result) bool {
		if v.Type != gjson.Null {
			out[k.String()] = v.String()
		}
		return true
	})
	return out, nil
}
