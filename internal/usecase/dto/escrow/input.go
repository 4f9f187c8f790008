package escrowdto

type CreateEscrowRecordInput struct {
	InvestmentID      string
	ProjectID         string
	ContractAddress   string
	Amount            int64
	ReleaseConditions string
}

type BindOnChainEscrowInput struct {
	InvestmentID  string
	ChainEscrowID uint64
}
