package analysis

// ParseResponse is exported for testing
var ParseResponse = parseResponse

// BuildUserPrompt is exported for testing
var BuildUserPrompt = buildUserPrompt
