package scribe

// Usage tracks token consumption for a single model call.
//
// InputTokens counts prompt tokens including the system instruction;
// OutputTokens counts generated tokens. Providers clamp negative values
// to zero.
type Usage struct {
	InputTokens  int
	OutputTokens int
}

// Add returns the sum of u and o.
func (u Usage) Add(o Usage) Usage {
	return Usage{
		InputTokens:  u.InputTokens + o.InputTokens,
		OutputTokens: u.OutputTokens + o.OutputTokens,
	}
}
