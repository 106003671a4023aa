package generator

import "strings"

// APIConfig 由调用方每次请求携带，核心不保存任何凭据。
type APIConfig struct {
	APIKey   string `json:"apiKey" yaml:"api_key"`
	Endpoint string `json:"endpoint" yaml:"endpoint"`
	Model    string `json:"model" yaml:"model"`
}

// ParameterSet maps a product attribute name to its verified value.
type ParameterSet map[string]string

// Clean 去掉空白值的参数。
func (p ParameterSet) Clean() ParameterSet {
	out := make(ParameterSet, len(p))
	for k, v := range p {
		k = strings.TrimSpace(k)
		if k == "" || strings.TrimSpace(v) == "" {
			continue
		}
		out[k] = v
	}
	return out
}

// Copy is the title/content pair a user wants checked or polished.
type Copy struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// ErrorRecord 描述文案中一处与参数不符的地方。
type ErrorRecord struct {
	Position     string `json:"position"`
	Param        string `json:"param"`
	WrongValue   string `json:"wrong_value"`
	CorrectValue string `json:"correct_value"`
}

// VerificationResult is the outcome of a verify call.
type VerificationResult struct {
	HasError         bool          `json:"has_error"`
	ErrorList        []ErrorRecord `json:"error_list"`
	CorrectedTitle   string        `json:"corrected_title"`
	CorrectedContent string        `json:"corrected_content"`
}

// PolishedResult 润色结果：至少一个标题和一段正文。
type PolishedResult struct {
	PolishedTitles  []string `json:"polished_titles"`
	PolishedContent string   `json:"polished_content"`
}

// VerifyInput carries the optional parameters and the copy to check.
type VerifyInput struct {
	Params ParameterSet
	Copy
}

// InspireInput 灵感生成的输入。
type InspireInput struct {
	Params    ParameterSet
	Direction string
	Copy
}

// PolishInput 润色输入，Inspiration 为用户选中的一条灵感。
type PolishInput struct {
	Params      ParameterSet
	Direction   string
	Inspiration string
	Copy
}
