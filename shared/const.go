package shared

const (
	// Rate limit endpoint types.
	EndpointContact     = "contact"
	EndpointChat        = "chat"
	EndpointChatLog     = "chat_log"
	EndpointAnalytics   = "analytics"
	EndpointTipCheckout = "tip_checkout"
	EndpointAPIGeneral  = "api_general"

	// Identifier used when no IP or session id is derivable. Deliberate
	// policy: anonymous clients share one bucket instead of bypassing limits.
	UnknownIdentifier = "unknown"
)
