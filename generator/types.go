package generator

// Brief is the user's idea for an article: a mandatory topic plus optional context.
type Brief struct {
	Prompt             string
	Keywords           *string
	Critique           *string
	ReferenceMaterials *string
	Sources            *string
}

// ParseOutcome records how the model's reply was interpreted.
type ParseOutcome string

const (
	// OutcomeParsed means the reply was a JSON object carrying the expected keys.
	OutcomeParsed ParseOutcome = "parsed"
	// OutcomeNotJSON means no JSON value could be decoded from the reply.
	OutcomeNotJSON ParseOutcome = "not_json"
	// OutcomeMissingKeys means the reply decoded as JSON but not as {title, summary, content}.
	OutcomeMissingKeys ParseOutcome = "missing_keys"
	// OutcomeEmpty means the reply was blank once any code fence was removed.
	OutcomeEmpty ParseOutcome = "empty"
)

// Fallback reports whether the result was synthesised instead of parsed.
func (o ParseOutcome) Fallback() bool {
	return o != OutcomeParsed
}

// Result 是模型产出的文章。
type Result struct {
	Title   string
	Summary string
	Content string
	Outcome ParseOutcome
}
