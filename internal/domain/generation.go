package domain

// GenerationStatusComplete 生成任务完成状态
const GenerationStatusComplete = "complete"

// GenerationRequest 图像生成任务的请求载荷（除 Prompt 外均为固定参数）
type GenerationRequest struct {
	Prompt         string        `json:"prompt"`
	GuidanceScale  float64       `json:"guidance_scale"`
	ImageStrength  int           `json:"image_strength"`
	NegativePrompt string        `json:"negative_prompt"`
	NumOutputs     int           `json:"num_outputs"`
	AspectRatio    string        `json:"aspect_ratio"`
	StudioOptions  StudioOptions `json:"studio_options"`
	InputImageLink string        `json:"input_image_link"`
}

// StudioOptions 生成任务的风格选项
type StudioOptions struct {
	Style StyleOptions `json:"style"`
}

// StyleOptions 风格列表，固定为空
type StyleOptions struct {
	Style []string `json:"style"`
}

// NewGenerationRequest 使用固定生成参数构造请求
func NewGenerationRequest(prompt string) GenerationRequest {
	return GenerationRequest{
		Prompt:         prompt,
		GuidanceScale:  7.5,
		ImageStrength:  1,
		NegativePrompt: "",
		NumOutputs:     4,
		AspectRatio:    "1:1",
		StudioOptions:  StudioOptions{Style: StyleOptions{Style: []string{}}},
		InputImageLink: "",
	}
}

// GenerationResult 生成成功后返回给调用方的结果
type GenerationResult struct {
	Status string   `json:"status"`
	Prompt string   `json:"prompt"`
	URLs   []string `json:"urls"`
	UsedBy string   `json:"used_by"` // 产生该结果的设备 ID
}
