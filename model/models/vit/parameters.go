package vit

import (
	"fmt"
	"sort"

	"github.com/Alkhaddour/tensorflow-image-models/ml"
)

// Parameters returns the model's named parameter slots. External weight
// loaders populate the returned tensors in place with Tensor.SetFloats;
// names follow the layer layout of the pretrained checkpoints
// ("cls_token", "patch_embed/proj/kernel", "blocks/0/attn/qkv/kernel", ...).
func (m *Model) Parameters() map[string]*ml.Tensor {
	params := map[string]*ml.Tensor{
		"cls_token":               m.ClsToken,
		"pos_embed":               m.PosEmbed,
		"patch_embed/proj/kernel": m.PatchEmbed.Proj.Weight,
		"patch_embed/proj/bias":   m.PatchEmbed.Proj.Bias,
		"norm/gamma":              m.Norm.Weight,
		"norm/beta":               m.Norm.Bias,
	}
	if m.DistToken != nil {
		params["dist_token"] = m.DistToken
	}

	for i, layer := range m.Layers {
		prefix := fmt.Sprintf("blocks/%d", i)
		params[prefix+"/norm1/gamma"] = layer.Norm1.Weight
		params[prefix+"/norm1/beta"] = layer.Norm1.Bias
		params[prefix+"/attn/qkv/kernel"] = layer.Attn.QKV.Weight
		if layer.Attn.QKV.Bias != nil {
			params[prefix+"/attn/qkv/bias"] = layer.Attn.QKV.Bias
		}
		params[prefix+"/attn/proj/kernel"] = layer.Attn.Proj.Weight
		params[prefix+"/attn/proj/bias"] = layer.Attn.Proj.Bias
		params[prefix+"/norm2/gamma"] = layer.Norm2.Weight
		params[prefix+"/norm2/beta"] = layer.Norm2.Bias
		params[prefix+"/mlp/fc1/kernel"] = layer.MLP.FC1.Weight
		params[prefix+"/mlp/fc1/bias"] = layer.MLP.FC1.Bias
		params[prefix+"/mlp/fc2/kernel"] = layer.MLP.FC2.Weight
		params[prefix+"/mlp/fc2/bias"] = layer.MLP.FC2.Bias
	}

	if m.PreLogits != nil {
		params["pre_logits/fc/kernel"] = m.PreLogits.Weight
		params["pre_logits/fc/bias"] = m.PreLogits.Bias
	}
	if m.Head != nil {
		params["head/kernel"] = m.Head.Weight
		params["head/bias"] = m.Head.Bias
	}
	if m.HeadDist != nil {
		params["head_dist/kernel"] = m.HeadDist.Weight
		params["head_dist/bias"] = m.HeadDist.Bias
	}

	return params
}

// NumParameters is the total trainable parameter count.
func (m *Model) NumParameters() int {
	var n int
	for _, p := range m.Parameters() {
		n += p.Size()
	}
	return n
}

// ParameterNames returns the slot names in sorted order.
func (m *Model) ParameterNames() []string {
	params := m.Parameters()
	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
