package classify

// ClassifyTopic returns the functional category of the message, or "" when
// no category keyword matches. Topics are mutually exclusive per message:
// the first registered category with a matching keyword wins, and multi-topic
// messages are handled by the update engine's working set, not here.
func (c *Classifier) ClassifyTopic(text string) string {
	return c.lex.TopicFor(text)
}

// Attributes returns every topic category mentioned in the message, in
// registration order. This feeds the carryover attribute set: "how much are
// the fees and what are the requirements" yields both categories even though
// ClassifyTopic reports only the first.
func (c *Classifier) Attributes(text string) []string {
	return c.lex.AttributesIn(text)
}
