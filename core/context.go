package core

import "github.com/reelkit/reelkit/pkg/utils"

// RecommendContext 承载用户/场景/请求级信息，贯穿整个 Pipeline 透传。
type RecommendContext struct {
	// UserID 由身份提供方解析得到的用户 ID
	UserID int64

	// Scene 请求场景（如 "for-you"、"homepage"）
	Scene string

	// Labels 是用户级标签，可驱动整个 Pipeline 行为
	Labels map[string]utils.Label

	// Params 请求级上下文参数，包含：
	// - 请求参数：count、media_kind 等
	// - 透传数据：各 Node 约定的中间结果
	Params map[string]any
}

// PutLabel 写入用户级 Label。
func (rctx *RecommendContext) PutLabel(key string, lbl utils.Label) {
	if rctx.Labels == nil {
		rctx.Labels = make(map[string]utils.Label)
	}
	if old, ok := rctx.Labels[key]; ok {
		rctx.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	rctx.Labels[key] = lbl
}

// GetLabel 获取用户级 Label。
func (rctx *RecommendContext) GetLabel(key string) (utils.Label, bool) {
	if rctx.Labels == nil {
		return utils.Label{}, false
	}
	lbl, ok := rctx.Labels[key]
	return lbl, ok
}

// ParamInt 读取整型请求参数，缺失或类型不符时返回 def。
func (rctx *RecommendContext) ParamInt(key string, def int) int {
	if rctx == nil || rctx.Params == nil {
		return def
	}
	switch v := rctx.Params[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return def
}
