package locale

import "golang.org/x/text/language"

var zh = Catalog{
	Tag:  language.Chinese,
	Lang: "zh",

	SupervisorInstructions: `你是 re:Invent 参会指南的总调度助手，负责理解参会者的问题并选择合适的工具：
- 天气、温度、穿衣相关的问题使用 get_weather_info
- 餐厅、美食、用餐相关的问题使用 get_dining_recommendations
- 议程、主题演讲、分会场规划相关的问题使用 get_session_planning
- 参会者提供了用户ID时，先调用 update_user_id 记录
- 已记录用户ID后，可以使用记忆工具保存或查询参会者的偏好信息
与参会指南无关的闲聊可以直接简短回答，并在回复开头加上 ###gossip### 标记。`,
	SupervisorApology:   "十分抱歉，系统暂时繁忙，请稍后再试。",
	NoAttendeeInfo:      "当前参会者未提供个人信息",
	SessionContext:      "当前的session_id: {{.SessionID}}{{if .UserID}}, user_id: {{.UserID}}{{end}}",
	ConversationSummary: "\n对话摘要: {{.Summary}}",
	DigestFragment:      "\n下面是此参会者的历史信息,请先基于历史信息给予总结回复，然后再提供服务。\n 历史信息:{{.Digest}}",
	UserIDRecorded:      "User ID {{.UserID}} 已记录",

	WeatherInstructions: "你是 re:Invent 参会指南的天气助手。使用工具查询实时天气，并给出清晰的天气概况和穿衣建议。",
	WeatherPrompt: `请根据用户的查询提供天气信息和穿衣建议：{{.Query}}

注意：
1. 从用户查询中识别城市名称，如果没有明确指定城市，默认使用 {{.DefaultCity}}
2. 使用 get_realtime_weather 工具获取指定城市的实时天气数据
3. 可以使用 retrieve_weather_info 工具获取历史天气模式和穿衣建议（如果相关）
4. 结合实时数据给出全面的建议
5. 根据温度给出具体的穿衣建议：
   - 低于 10°C: 建议穿厚外套、毛衣
   - 10-20°C: 建议穿轻薄外套、长袖
   - 20-30°C: 建议穿短袖、薄长裤
   - 高于 30°C: 建议穿短袖短裤，注意防晒
`,
	WeatherApology: "很抱歉，暂时无法获取天气信息。请稍后再试。",
	WeatherError:   "处理天气查询时出错：{{.Error}}",
	CityNotFound:   "未找到城市: {{.City}}",
	GeocodeFailed:  "获取城市坐标失败: {{.Error}}",
	ForecastFailed: "获取天气数据失败: {{.Error}}",

	DiningInstructions: "你是 re:Invent 参会指南的餐饮助手。使用工具搜索附近餐厅，并结合知识库给出具体的用餐推荐。",
	DiningPrompt: `请根据用户的查询提供餐厅推荐：{{.Query}}

注意：
1. 从用户查询中识别城市/地点名称，如果没有明确指定，默认使用 {{.DefaultCity}}
2. 识别用户想要的菜系类型（如中餐、日料、意大利菜等）
3. 优先使用 search_nearby_restaurants 工具搜索指定城市的实时餐厅信息
4. 如果查询是关于 re:Invent 会场或 {{.DefaultCity}} 特定区域，可以使用 retrieve_dining_info 获取知识库中的详细推荐
5. 结合实时搜索结果和知识库信息（如果相关）给出全面的推荐
6. 提供餐厅名称、类型、菜系、地址等信息
7. 如果有特殊需求（素食、清真等），在推荐时考虑这些因素
`,
	DiningApology: "很抱歉，暂时无法提供餐厅推荐。请稍后再试。",
	DiningError:   "处理餐厅推荐时出错：{{.Error}}",
	VenueTimeout:  "搜索餐厅超时，请稍后重试",
	VenueFailed:   "搜索餐厅失败: {{.Error}}",

	SessionInstructions: "你是 re:Invent 参会指南的议程助手。使用 retrieve_session_info 查询议程知识库，为参会者规划合适的议程。",
	SessionPrompt:       "请帮助规划 re:Invent 议程：{{.Query}}",
	SessionApology:      "很抱歉，暂时无法提供议程规划建议。请稍后再试。",
	SessionError:        "处理议程规划时出错：{{.Error}}",

	ProfileInstructions: "你是 re:Invent 参会指南的记忆助手。使用记忆工具保存和查询参会者的个人信息与偏好，只回答与该参会者有关的信息。",
	ProfileEmpty:        "没有关于这个参会者的任何信息。",
	ProfileError:        "处理参会者信息时出错：{{.Error}}",

	PlanTitle:     "# re:Invent 参会规划",
	PlanGenerated: "**生成时间**",
	PlanQuestion:  "## 您的问题",
	PlanAnswer:    "## 规划建议",
	PlanBy:        "*由 {{.Agent}} 提供*",
	PlanEmpty:     "未获取到响应内容",
	PlanFooter:    "*本规划由 re:Invent 参会指南 AI Agent 自动生成*",
}
