// Package main is a command line client for the catalog gRPC API.
//
//	catalogctl [flags] list
//	catalogctl [flags] get ID
//	catalogctl [flags] create --name N --description D --price P --amount A
//	catalogctl [flags] update ID [--name N] [--description D] [--price P] [--amount A]
//	catalogctl [flags] delete ID
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/abgdnv/catalog/internal/service"
	grpcImpl "github.com/abgdnv/catalog/internal/transport/grpc"
	"github.com/abgdnv/catalog/pkg/client"
	"github.com/abgdnv/catalog/pkg/config"
	"github.com/spf13/pflag"
)

var errUsage = errors.New("usage: catalogctl [--addr host:port] list|get ID|create|update ID|delete ID [product flags]")

type options struct {
	client      config.GrpcClientConfig
	name        string
	description string
	price       float64
	amount      int64
	args        []string
	changed     func(name string) bool
}

func main() {
	opts, err := parseFlags(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if err := opts.client.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	conn, err := client.NewGRPCConn(opts.client)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer func() { _ = conn.Close() }()

	if err := run(context.Background(), clientAdapter{c: grpcImpl.NewClient(conn)}, opts, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func parseFlags(args []string) (options, error) {
	fs := pflag.NewFlagSet("catalogctl", pflag.ContinueOnError)
	var opts options
	fs.StringVarP(&opts.client.Addr, "addr", "a", "localhost:9090", "catalog gRPC address")
	fs.DurationVar(&opts.client.Timeout, "timeout", 5*time.Second, "per attempt timeout, 0 for none")
	fs.UintVar(&opts.client.Retry.MaxAttempts, "retries", 3, "attempts on transient errors")
	fs.DurationVar(&opts.client.Retry.InitialBackoff, "backoff", 100*time.Millisecond, "initial retry backoff")
	fs.StringVar(&opts.name, "name", "", "product name")
	fs.StringVar(&opts.description, "description", "", "product description")
	fs.Float64Var(&opts.price, "price", 0, "product price")
	fs.Int64Var(&opts.amount, "amount", 0, "product amount in stock")
	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	opts.client.CircuitBreaker = config.CircuitBreakerConfig{
		ConsecutiveFailures: 5,
		ErrorRatePercent:    60,
		OpenTimeout:         5 * time.Second,
	}
	opts.args = fs.Args()
	opts.changed = fs.Changed
	if len(opts.args) == 0 {
		return opts, errUsage
	}
	return opts, nil
}

// productClient is the subset of the gRPC client used by the commands.
type productClient interface {
	GetProduct(ctx context.Context, id int64) (*service.ProductDto, error)
	ListProducts(ctx context.Context) ([]service.ProductDto, error)
	CreateProduct(ctx context.Context, product service.ProductCreateDto) (*service.ProductDto, error)
	UpdateProduct(ctx context.Context, id int64, product service.ProductUpdateDto) (*service.ProductDto, error)
	DeleteProduct(ctx context.Context, id int64) error
}

// clientAdapter drops the call options of the gRPC client methods.
type clientAdapter struct {
	c *grpcImpl.Client
}

func (a clientAdapter) GetProduct(ctx context.Context, id int64) (*service.ProductDto, error) {
	return a.c.GetProduct(ctx, id)
}

func (a clientAdapter) ListProducts(ctx context.Context) ([]service.ProductDto, error) {
	return a.c.ListProducts(ctx)
}

func (a clientAdapter) CreateProduct(ctx context.Context, product service.ProductCreateDto) (*service.ProductDto, error) {
	return a.c.CreateProduct(ctx, product)
}

func (a clientAdapter) UpdateProduct(ctx context.Context, id int64, product service.ProductUpdateDto) (*service.ProductDto, error) {
	return a.c.UpdateProduct(ctx, id, product)
}

func (a clientAdapter) DeleteProduct(ctx context.Context, id int64) error {
	return a.c.DeleteProduct(ctx, id)
}

func run(ctx context.Context, c productClient, opts options, out io.Writer) error {
	var (
		result any
		err    error
	)
	switch opts.args[0] {
	case "list":
		result, err = c.ListProducts(ctx)
	case "get":
		id, idErr := idArg(opts.args)
		if idErr != nil {
			return idErr
		}
		result, err = c.GetProduct(ctx, id)
	case "create":
		result, err = c.CreateProduct(ctx, service.ProductCreateDto{
			Name:        opts.name,
			Description: opts.description,
			Price:       &opts.price,
			Amount:      &opts.amount,
		})
	case "update":
		id, idErr := idArg(opts.args)
		if idErr != nil {
			return idErr
		}
		result, err = c.UpdateProduct(ctx, id, updateFromFlags(opts))
	case "delete":
		id, idErr := idArg(opts.args)
		if idErr != nil {
			return idErr
		}
		if err := c.DeleteProduct(ctx, id); err != nil {
			return err
		}
		_, err = fmt.Fprintf(out, "deleted %d\n", id)
		return err
	default:
		return errUsage
	}
	if err != nil {
		return err
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

// updateFromFlags sends only the product flags given on the command line.
func updateFromFlags(opts options) service.ProductUpdateDto {
	var dto service.ProductUpdateDto
	if opts.changed("name") {
		dto.Name = &opts.name
	}
	if opts.changed("description") {
		dto.Description = &opts.description
	}
	if opts.changed("price") {
		dto.Price = &opts.price
	}
	if opts.changed("amount") {
		dto.Amount = &opts.amount
	}
	return dto
}

func idArg(args []string) (int64, error) {
	if len(args) < 2 {
		return 0, errUsage
	}
	id, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid product ID %q", args[1])
	}
	return id, nil
}
