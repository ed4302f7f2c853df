package model

// Settings is the operator's local panel configuration. It never reaches the
// shared document store.
type Settings struct {
	PlatformName        string `json:"platformName"`
	PlatformDescription string `json:"platformDescription"`
	PlatformURL         string `json:"platformUrl"`
	SupportEmail        string `json:"supportEmail"`

	AllowInstantApproval        bool   `json:"allowInstantApproval"`
	RequireBusinessVerification bool   `json:"requireBusinessVerification"`
	MinimumAge                  int    `json:"minimumAge"`
	SupportedCountries          string `json:"supportedCountries"`

	CommissionRate float64 `json:"commissionRate"`
	ProcessingFee  float64 `json:"processingFee"`
	MonthlyFee     float64 `json:"monthlyFee"`
	ListingFee     float64 `json:"listingFee"`
	WithdrawalFee  float64 `json:"withdrawalFee"`

	WelcomeEmailEnabled      bool `json:"welcomeEmailEnabled"`
	ApprovalEmailEnabled     bool `json:"approvalEmailEnabled"`
	SalesNotificationEnabled bool `json:"salesNotificationEnabled"`
	MonthlyReportEnabled     bool `json:"monthlyReportEnabled"`

	PrimaryColor   string `json:"primaryColor"`
	SecondaryColor string `json:"secondaryColor"`
	LogoURL        string `json:"logoUrl"`
	FaviconURL     string `json:"faviconUrl"`
	BrandFont      string `json:"brandFont"`

	MetaTitle       string `json:"metaTitle"`
	MetaDescription string `json:"metaDescription"`
	MetaKeywords    string `json:"metaKeywords"`

	TwoFactorRequired bool `json:"twoFactorRequired"`
	PasswordMinLength int  `json:"passwordMinLength"`
	SessionTimeout    int  `json:"sessionTimeout"`
	MaxLoginAttempts  int  `json:"maxLoginAttempts"`

	EmailNotifications bool `json:"emailNotifications"`
	SMSNotifications   bool `json:"smsNotifications"`
	PushNotifications  bool `json:"pushNotifications"`
	MarketingEmails    bool `json:"marketingEmails"`
}

func DefaultSettings() Settings {
	return Settings{
		PlatformName:        "SellerHub",
		PlatformDescription: "The ultimate platform for online sellers",
		PlatformURL:         "https://your-seller-platform.com",
		SupportEmail:        "support@your-platform.com",

		AllowInstantApproval: true,
		MinimumAge:           18,
		SupportedCountries:   "US,CA,UK,AU",

		CommissionRate: 5,
		ProcessingFee:  2.9,
		WithdrawalFee:  1,

		WelcomeEmailEnabled:      true,
		ApprovalEmailEnabled:     true,
		SalesNotificationEnabled: true,
		MonthlyReportEnabled:     true,

		PrimaryColor:   "#3B82F6",
		SecondaryColor: "#10B981",
		BrandFont:      "Inter",

		MetaTitle:       "Sell Online - Your Seller Platform",
		MetaDescription: "Join thousands of successful sellers on our platform. Easy setup, powerful tools, and unlimited potential.",
		MetaKeywords:    "sell online, e-commerce, marketplace, sellers",

		PasswordMinLength: 8,
		SessionTimeout:    60,
		MaxLoginAttempts:  5,

		EmailNotifications: true,
		PushNotifications:  true,
		MarketingEmails:    true,
	}
}
