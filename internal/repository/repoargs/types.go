package repoargs

type RepositoryName string

const (
	AccountRepoName     RepositoryName = "account"
	TransactionRepoName RepositoryName = "transaction"
	DealRepoName        RepositoryName = "deal"
	InvoiceRepoName     RepositoryName = "invoice"
	LedgerRepoName      RepositoryName = "ledger"
)
