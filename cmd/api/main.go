package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"

	"github.com/clubledger/backend/internal/api/handlers"
	"github.com/clubledger/backend/internal/api/middleware"
	"github.com/clubledger/backend/internal/api/response"
	"github.com/clubledger/backend/internal/cache"
	envconfig "github.com/clubledger/backend/internal/common/config"
	"github.com/clubledger/backend/internal/domain/account"
	"github.com/clubledger/backend/internal/domain/bankaccount"
	"github.com/clubledger/backend/internal/domain/project"
	"github.com/clubledger/backend/internal/domain/transaction"
	dynamoClient "github.com/clubledger/backend/internal/platform/dynamodb/client"
	dynamodbRepository "github.com/clubledger/backend/internal/platform/dynamodb/repository"
	"github.com/clubledger/backend/internal/query"
	"github.com/clubledger/backend/internal/reports"
)

// Router dispatches API Gateway requests to the entity and report handlers
type Router struct {
	transactions *handlers.TransactionHandler
	accounts     *handlers.AccountHandler
	projects     *handlers.ProjectHandler
	bankAccounts *handlers.BankAccountHandler
	reports      *handlers.ReportHandler
	cacheAdmin   *handlers.CacheHandler
}

func (r *Router) route(ctx context.Context, logger *slog.Logger, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	if request.HTTPMethod == "OPTIONS" {
		return events.APIGatewayProxyResponse{
			StatusCode: http.StatusOK,
			Headers:    response.DefaultHeaders(),
		}, nil
	}

	path := strings.TrimSuffix(request.Path, "/")
	method := request.HTTPMethod
	hasID := request.PathParameters["id"] != ""

	switch {
	case strings.HasPrefix(path, "/transactions"):
		return dispatchCRUD(ctx, logger, request, method, hasID, crud{
			create: r.transactions.Create,
			list:   r.transactions.List,
			get:    r.transactions.Get,
			update: r.transactions.Update,
			delete: r.transactions.Delete,
		})
	case strings.HasPrefix(path, "/accounts"):
		return dispatchCRUD(ctx, logger, request, method, hasID, crud{
			create: r.accounts.Create,
			list:   r.accounts.List,
			get:    r.accounts.Get,
			update: r.accounts.Update,
			delete: r.accounts.Delete,
		})
	case strings.HasPrefix(path, "/projects"):
		return dispatchCRUD(ctx, logger, request, method, hasID, crud{
			create: r.projects.Create,
			list:   r.projects.List,
			get:    r.projects.Get,
			update: r.projects.Update,
			delete: r.projects.Delete,
		})
	case strings.HasPrefix(path, "/bank-accounts"):
		return dispatchCRUD(ctx, logger, request, method, hasID, crud{
			create: r.bankAccounts.Create,
			list:   r.bankAccounts.List,
			get:    r.bankAccounts.Get,
			update: r.bankAccounts.Update,
			delete: r.bankAccounts.Delete,
		})
	case path == "/reports/trial-balance" && method == "GET":
		return r.reports.TrialBalance(ctx, logger, request)
	case path == "/reports/balance-sheet" && method == "GET":
		return r.reports.BalanceSheet(ctx, logger, request)
	case path == "/reports/profit-and-loss" && method == "GET":
		return r.reports.ProfitAndLoss(ctx, logger, request)
	case path == "/reports/project-statistics" && method == "GET":
		return r.reports.ProjectStatistics(ctx, logger, request)
	case path == "/reports/dashboard" && method == "GET":
		return r.reports.Dashboard(ctx, logger, request)
	case path == "/cache/clear" && method == "POST":
		return r.cacheAdmin.Clear(ctx, logger, request)
	case path == "/cache/stats" && method == "GET":
		return r.cacheAdmin.Stats(ctx, logger, request)
	}

	return response.NotFound("Endpoint not found", request.RequestContext.RequestID), nil
}

type crud struct {
	create middleware.APIGatewayHandler
	list   middleware.APIGatewayHandler
	get    middleware.APIGatewayHandler
	update middleware.APIGatewayHandler
	delete middleware.APIGatewayHandler
}

func dispatchCRUD(
	ctx context.Context, logger *slog.Logger, request events.APIGatewayProxyRequest,
	method string, hasID bool, h crud,
) (events.APIGatewayProxyResponse, error) {
	switch {
	case method == "POST" && !hasID:
		return h.create(ctx, logger, request)
	case method == "GET" && !hasID:
		return h.list(ctx, logger, request)
	case method == "GET":
		return h.get(ctx, logger, request)
	case method == "PUT":
		return h.update(ctx, logger, request)
	case method == "DELETE":
		return h.delete(ctx, logger, request)
	}
	return response.NotFound("Endpoint not found", request.RequestContext.RequestID), nil
}

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Load configuration
	config, err := envconfig.LoadFromEnv()
	if err != nil {
		logger.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Initialize DynamoDB client
	client, err := dynamoClient.NewDynamoDBClient(context.Background(), config.AWSRegion)
	if err != nil {
		logger.Error("Failed to initialize DynamoDB client", "error", err)
		os.Exit(1)
	}

	factory := dynamodbRepository.NewFactory(client, config.DynamoDBTableName, logger)

	// One cache instance per Lambda container; explicit invalidation on writes,
	// TTL as the safety net
	aggregateCache := cache.New(config.CacheTTL)

	transactionService := transaction.NewService(factory.TransactionRepository(), aggregateCache, logger)
	accountService := account.NewService(factory.AccountRepository(), aggregateCache)
	projectService := project.NewService(factory.ProjectRepository(), aggregateCache)
	bankAccountService := bankaccount.NewService(factory.BankAccountRepository(), aggregateCache)

	pager := query.NewPager(factory.TransactionRepository(), logger, config.DefaultPageSize, config.MaxPageSize)
	composer := reports.NewComposer(transactionService, accountService, projectService, bankAccountService, aggregateCache, logger)

	router := &Router{
		transactions: handlers.NewTransactionHandler(transactionService, pager),
		accounts:     handlers.NewAccountHandler(accountService, composer),
		projects:     handlers.NewProjectHandler(projectService, composer),
		bankAccounts: handlers.NewBankAccountHandler(bankAccountService, composer),
		reports:      handlers.NewReportHandler(composer),
		cacheAdmin:   handlers.NewCacheHandler(aggregateCache),
	}

	handler := middleware.Chain(router.route,
		middleware.NewLoggingMiddleware().Handle,
		middleware.NewRecoveryMiddleware().Handle,
		middleware.NewTenantMiddleware().Handle,
	)

	lambda.Start(func(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
		return handler(ctx, logger, request)
	})
}
