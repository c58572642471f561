package constant

const (
	ChatMessageRoleUser      = "user"
	ChatMessageRoleAssistant = "assistant"
	ChatMessageRoleSystem    = "system"

	// Interaction origins recorded with every answered message.
	OriginFAQ = "faq"
	OriginGPT = "gpt"

	// ProfileUnknown fills any profile field the classifier could not decide.
	ProfileUnknown = "unknown"

	// FAQ answers are reworded with this instruction before being returned.
	// The stored answer is appended after a blank line.
	ParaphrasePrompt = `Rewrite the following content in a %s tone. Keep all of the information and keep it as friendly HTML: paragraphs in <p>, line breaks with <br> and key words in <strong>. Do not add facts that are not present.`

	ParaphraseStyle = "warmer and more conversational"

	// DefaultReinforcement is re-sent right after the persona on every
	// generative turn. It never enters stored history.
	DefaultReinforcement = `Remember: answer only with information from your knowledge base about promoting tourism businesses. Reply in friendly HTML using <p> paragraphs, <br> line breaks and <strong> for key words. Never invent emails, prices or phone numbers.`

	ProfileClassifierPrompt = `You are a user profile analyzer. Given the message below, return a JSON object with exactly these keys:

- business_type: one of (hotel, restaurant, guide, other)
- intent: one of (register, increase_visibility, just_browsing, other)
- knowledge_level: one of (new, knows_platform, registered)

User message:
"%s"

Reply with the JSON only, no explanation.`

	// DefaultPersona is used when no persona asset is configured.
	DefaultPersona = `You are an assistant for a tourism promotion platform. You help hotels, restaurants and local guides explore ways to grow their business and reach travelers. Only answer from your knowledge base and politely decline anything outside that scope.`

	ChatUnavailableMessage = "The assistant is temporarily unavailable, please try again in a moment."
)
