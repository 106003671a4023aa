package generator

const parseTemplate = `你是一名严谨的电视产品参数整理助手。请从下面的文本中提取所有产品参数，整理成 JSON 对象。

要求：
- 键为参数名，值为参数值，均为字符串。
- 参数名保持原文的叫法，不要翻译或改写；参数值保留单位。
- 忽略与产品参数无关的内容（广告语、客服信息等）。
- 参数值为空的条目不要输出。
- 只输出 JSON，不要任何解释，不要使用 markdown 代码块。

输出示例：
{"屏幕尺寸": "65英寸", "分辨率": "3840×2160", "刷新率": "144Hz"}

参数文本：
{{TEXT}}`

const verifyTemplate = `你是一名小红书电视文案的参数校核编辑。请对照【产品参数】逐条检查【文案】中出现的事实性描述（尺寸、分辨率、刷新率、亮度、内存、存储、音响功率、接口数量等），找出与参数不一致的地方并修正。

【产品参数】
{{PARAMS}}

【文案标题】
{{TITLE}}

【文案正文】
{{CONTENT}}

校核规则：
- 只纠正与参数矛盾的事实，参数中没有提到的描述保持原样，不要编造参数。
- 修正时尽量少改动，保留原文的语气、表情符号和排版。
- position 用人能看懂的方式描述错误位置，例如"标题"、"正文第2段"。
- 没有错误时 has_error 为 false，error_list 为空数组，corrected_title/corrected_content 为原文。

只输出如下 JSON，不要任何解释：
{
  "has_error": true,
  "error_list": [
    {"position": "标题", "param": "参数名", "wrong_value": "文案中的错误写法", "correct_value": "参数中的正确值"}
  ],
  "corrected_title": "修正后的标题",
  "corrected_content": "修正后的正文"
}`

const inspireTemplate = `你是一名擅长小红书爆款内容的电视文案策划。请基于产品参数和现有文案，围绕【{{DIRECTION_LABEL}}】方向构思创作灵感。

方向说明：{{DIRECTION_DESC}}

【产品参数】
{{PARAMS}}

【现有标题】
{{TITLE}}

【现有正文】
{{CONTENT}}

要求：
- 给出 5 条彼此差异明显的创作灵感，每条 20~40 字，说清切入角度和核心卖点。
- 灵感中提到的参数必须与【产品参数】一致，不得编造。
- 只输出 JSON，不要任何解释：
{"inspirations": ["灵感1", "灵感2", "灵感3", "灵感4", "灵感5"]}`

const simpleInspireTemplate = `你是一名擅长小红书爆款内容的文案策划。请基于现有文案，围绕【{{DIRECTION_LABEL}}】方向构思创作灵感。

方向说明：{{DIRECTION_DESC}}

【现有标题】
{{TITLE}}

【现有正文】
{{CONTENT}}

要求：
- 给出 5 条彼此差异明显的创作灵感，每条 20~40 字，说清切入角度。
- 不要凭空添加具体的产品参数数值。
- 只输出 JSON，不要任何解释：
{"inspirations": ["灵感1", "灵感2", "灵感3", "灵感4", "灵感5"]}`

const polishTemplate = `你是一名资深小红书电视文案写手。请以选定的灵感为核心，按照【{{DIRECTION_LABEL}}】方向重构文案。

方向说明：{{DIRECTION_DESC}}

选定灵感：{{INSPIRATION}}

【产品参数】（文案中出现的所有参数必须与此一致）
{{PARAMS}}

【原标题】
{{TITLE}}

【原正文】
{{CONTENT}}

{{STRUCTURE_TEMPLATE}}

写作要求：
- 可以大胆重写，但不得出现与【产品参数】矛盾的数值，不得编造参数。
- 符合小红书风格：口语化、分段清晰、适量使用表情符号。
- 给出 3 个不同风格的标题，每个不超过 20 字。

只输出如下 JSON，不要任何解释：
{"polished_titles": ["标题1", "标题2", "标题3"], "polished_content": "润色后的正文"}`

const simplePolishTemplate = `你是一名资深小红书文案编辑。请润色下面的文案，按照【{{DIRECTION_LABEL}}】方向优化表达。

方向说明：{{DIRECTION_DESC}}

参考灵感：{{INSPIRATION}}

【原标题】
{{TITLE}}

【原正文】
{{CONTENT}}

{{STRUCTURE_TEMPLATE}}

要求：
- 保留原文中的事实信息，不要添加原文没有的产品参数数值。
- 语言更流畅、更有吸引力，符合小红书风格。

只输出如下 JSON，不要任何解释：
{"corrected_title": "润色后的标题", "corrected_content": "润色后的正文"}`
