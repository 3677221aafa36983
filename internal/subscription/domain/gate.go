package domain

// Operation names used in the premium gate and rate limit keys.
const (
	OpDocumentsRender   = "documents.render"
	OpDocumentsValidate = "documents.validate"
	OpDocumentsList     = "documents.list"
	OpSubscriptionGet   = "subscription.get"
	OpSubscriptionWrite = "subscription.write"
	OpBrandingCustom    = "branding.custom"
)

// premiumGated lists the operations that require an active premium
// entitlement. Operations not listed are unrestricted; rendering stays open
// to the free tier and is feature-gated via the watermark instead.
var premiumGated = map[string]bool{
	OpDocumentsList:  true,
	OpBrandingCustom: true,
}

// RequiresPremium reports whether an operation is premium-gated.
func RequiresPremium(operation string) bool {
	return premiumGated[operation]
}
