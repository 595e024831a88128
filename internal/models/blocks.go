// internal/models/blocks.go
package models

type Filter struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

type CareInstruction struct {
	Text     string      `json:"text"`
	IconURL  string      `json:"iconUrl"`
	IconKey  string      `json:"iconKey"`
	IconFile *FileUpload `json:"iconFile,omitempty"`
}

type CareBlock struct {
	Description  string            `json:"description"`
	Instructions []CareInstruction `json:"instructions"`
}

func (c CareBlock) clone() CareBlock {
	out := c
	if c.Instructions != nil {
		out.Instructions = append([]CareInstruction{}, c.Instructions...)
	}
	return out
}

// PolicyKind names a policy block. The value doubles as its payload field name.
type PolicyKind string

const (
	PolicyShipping     PolicyKind = "shipping"
	PolicyCOD          PolicyKind = "codPolicy"
	PolicyReturn       PolicyKind = "returnPolicy"
	PolicyExchange     PolicyKind = "exchangePolicy"
	PolicyCancellation PolicyKind = "cancellationPolicy"
)

// PolicyKinds lists the blocks in payload order.
var PolicyKinds = []PolicyKind{
	PolicyShipping,
	PolicyCOD,
	PolicyReturn,
	PolicyExchange,
	PolicyCancellation,
}

func (k PolicyKind) Valid() bool {
	for _, kind := range PolicyKinds {
		if kind == k {
			return true
		}
	}
	return false
}

// IconField is the multipart field carrying the block's pending icon.
func (k PolicyKind) IconField() string {
	switch k {
	case PolicyShipping:
		return "shippingIcon"
	case PolicyCOD:
		return "codIcon"
	default:
		return string(k) + "Icon"
	}
}

type PolicyBlock struct {
	Title       string      `json:"title"`
	Description string      `json:"description"`
	IconURL     string      `json:"iconUrl"`
	IconKey     string      `json:"iconKey"`
	IconFile    *FileUpload `json:"iconFile,omitempty"`
}

type Policies map[PolicyKind]PolicyBlock

func NewPolicies() Policies {
	p := make(Policies, len(PolicyKinds))
	for _, kind := range PolicyKinds {
		p[kind] = PolicyBlock{}
	}
	return p
}

func (p Policies) clone() Policies {
	out := make(Policies, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}
