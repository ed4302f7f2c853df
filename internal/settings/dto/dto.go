package dto

// FeePreview breaks a sale amount down into the platform's cuts.
type FeePreview struct {
	SaleAmount    float64 `json:"saleAmount"`
	Commission    float64 `json:"commission"`
	ProcessingFee float64 `json:"processingFee"`
	SellerPayout  float64 `json:"sellerPayout"`
}
