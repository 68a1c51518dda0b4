package repository

import (
	"log/slog"

	"github.com/clubledger/backend/internal/domain/account"
	"github.com/clubledger/backend/internal/domain/bankaccount"
	"github.com/clubledger/backend/internal/domain/project"
	"github.com/clubledger/backend/internal/domain/transaction"
	"github.com/clubledger/backend/internal/platform/dynamodb/client"
)

// Factory creates repository instances
type Factory struct {
	client    client.Client
	tableName string
	logger    *slog.Logger
}

// NewFactory creates a new repository factory
func NewFactory(client client.Client, tableName string, logger *slog.Logger) *Factory {
	return &Factory{
		client:    client,
		tableName: tableName,
		logger:    logger,
	}
}

// TransactionRepository returns an implementation of the transaction.Repository interface
func (f *Factory) TransactionRepository() transaction.Repository {
	return NewDynamoDBTransactionRepository(f.client, f.tableName, f.logger)
}

// AccountRepository returns an implementation of the account.Repository interface
func (f *Factory) AccountRepository() account.Repository {
	return NewDynamoDBAccountRepository(f.client, f.tableName, f.logger)
}

// ProjectRepository returns an implementation of the project.Repository interface
func (f *Factory) ProjectRepository() project.Repository {
	return NewDynamoDBProjectRepository(f.client, f.tableName, f.logger)
}

// BankAccountRepository returns an implementation of the bankaccount.Repository interface
func (f *Factory) BankAccountRepository() bankaccount.Repository {
	return NewDynamoDBBankAccountRepository(f.client, f.tableName, f.logger)
}
