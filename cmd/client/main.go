package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"

	"storefront/internal/core/cache"
	"storefront/internal/core/config"
	"storefront/internal/core/httpclient"
	"storefront/internal/core/logger"
	"storefront/internal/core/resilience"
	cartadapter "storefront/internal/features/cart/adapters"
	cart "storefront/internal/features/cart/domain"
	cartservice "storefront/internal/features/cart/service"
	checkoutadapter "storefront/internal/features/checkout/adapters"
	checkout "storefront/internal/features/checkout/domain"
	checkoutservice "storefront/internal/features/checkout/service"
	dashboardadapter "storefront/internal/features/dashboard/adapters"
	dashboardservice "storefront/internal/features/dashboard/service"
	orders "storefront/internal/features/orders/domain"
	stats "storefront/internal/features/stats/domain"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const usage = `usage: storefront <command> [args]

commands:
  cart add <product-id> <name> <unit-price> [quantity] [product-type]
  cart remove <product-id>
  cart set <product-id> <quantity>
  cart show
  cart clear
  checkout -name -email -phone -address -city -state -payment [-info]
  history
  order <id>
  stats [week|month|year]
`

type client struct {
	cfg       *config.ClientConfig
	cart      *cartservice.CartService
	checkout  *checkoutservice.CheckoutService
	dashboard *dashboardservice.DashboardService
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cfg, err := config.LoadClient(".")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Init(cfg.Environment, cfg.LogLevel); err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	redisCache, err := cache.NewRedisAdapter(cfg.Redis.URL)
	if err != nil {
		logger.Get().Fatal("Redis configuration invalid", zap.Error(err))
	}
	defer redisCache.Close()

	rest := cfg.Proxy.Apply(httpclient.NewRESTClient(cfg.Checkout.APIBaseURL, cfg.Checkout.RequestTimeout))
	tokens := checkoutadapter.StaticTokenSource(cfg.Token)

	cartSvc := cartservice.NewCartService(cartadapter.NewRedisCartStore(redisCache, cfg.CartTTL), cfg.Session)
	if err := cartSvc.Load(ctx); err != nil {
		logger.Get().Fatal("Failed to load cart", zap.Error(err))
	}

	c := &client{
		cfg:  cfg,
		cart: cartSvc,
		checkout: checkoutservice.NewCheckoutService(
			checkoutadapter.NewRESTOrderGateway(rest, resilience.NewBreaker("orders-api", resilience.Settings{})),
			cartSvc,
			checkoutadapter.NewRESTSettingsProvider(rest),
			tokens,
			checkoutadapter.NewRedisFallbackStore(redisCache),
			cfg.Session,
		),
		dashboard: dashboardservice.NewDashboardService(dashboardadapter.NewRESTStatsFetcher(rest), cfg.Token),
	}

	if err := c.run(ctx, os.Args[1], os.Args[2:]); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func (c *client) run(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "cart":
		return c.runCart(ctx, args)
	case "checkout":
		return c.runCheckout(ctx, args)
	case "history":
		entries, err := c.checkout.History(ctx)
		if entries != nil {
			printJSON(entries)
		}
		return err
	case "order":
		if len(args) != 1 {
			return errors.New("order needs an id")
		}
		entry, err := c.checkout.Get(ctx, args[0])
		if err != nil {
			return err
		}
		printJSON(entry)
		return nil
	case "stats":
		window, err := stats.ParseWindow(firstOr(args, ""))
		if err != nil {
			return err
		}
		figures, err := c.dashboard.Select(ctx, window)
		if err != nil {
			return err
		}
		printJSON(figures)
		return nil
	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func (c *client) runCart(ctx context.Context, args []string) error {
	switch firstOr(args, "show") {
	case "add":
		if len(args) < 4 {
			return errors.New("cart add needs <product-id> <name> <unit-price> [quantity] [product-type]")
		}
		price, err := decimal.NewFromString(args[3])
		if err != nil {
			return fmt.Errorf("invalid price %q: %w", args[3], err)
		}
		qty := 1
		if len(args) > 4 {
			if qty, err = strconv.Atoi(args[4]); err != nil {
				return fmt.Errorf("invalid quantity %q: %w", args[4], err)
			}
		}
		product := cart.Product{ID: args[1], Name: args[2], Price: price}
		if len(args) > 5 {
			product.Type = args[5]
		}
		if err := c.cart.Add(ctx, product, qty); err != nil {
			return err
		}
	case "remove":
		if len(args) != 2 {
			return errors.New("cart remove needs <product-id>")
		}
		if err := c.cart.Remove(ctx, args[1]); err != nil {
			return err
		}
	case "set":
		if len(args) != 3 {
			return errors.New("cart set needs <product-id> <quantity>")
		}
		qty, err := strconv.Atoi(args[2])
		if err != nil {
			return fmt.Errorf("invalid quantity %q: %w", args[2], err)
		}
		if err := c.cart.SetQuantity(ctx, args[1], qty); err != nil {
			return err
		}
	case "clear":
		if err := c.cart.Clear(ctx); err != nil {
			return err
		}
	case "show":
	default:
		return fmt.Errorf("unknown cart command %q", args[0])
	}

	printJSON(c.cart.Snapshot())
	return nil
}

func (c *client) runCheckout(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("checkout", flag.ContinueOnError)
	var form checkout.Form
	var payment string
	fs.StringVar(&form.Shipping.FullName, "name", "", "full name")
	fs.StringVar(&form.Shipping.Email, "email", "", "email address")
	fs.StringVar(&form.Shipping.PhoneNumber, "phone", "", "phone number")
	fs.StringVar(&form.Shipping.Address, "address", "", "street address")
	fs.StringVar(&form.Shipping.City, "city", "", "city")
	fs.StringVar(&form.Shipping.State, "state", "", "state or region")
	fs.StringVar(&form.Shipping.AdditionalInfo, "info", "", "delivery notes")
	fs.StringVar(&payment, "payment", "", "telebirr, bank-of-abyssinia or commercial-bank-of-ethiopia")
	if err := fs.Parse(args); err != nil {
		return err
	}
	form.PaymentMethod = orders.PaymentMethod(payment)

	session, err := c.checkout.StartSession(ctx)
	if err != nil {
		return err
	}

	receipt, err := session.Submit(ctx, form)
	if err != nil {
		var closed *checkout.OrdersDisabledError
		if errors.As(err, &closed) {
			printJSON(closed.Contact)
		}
		return err
	}

	if fb, ok := receipt.(checkout.FallbackOrder); ok {
		fmt.Fprintf(os.Stderr, "backend unreachable, order %s kept locally (%v)\n", fb.OrderID(), fb.Cause)
	}
	printJSON(receipt.Placed())
	return nil
}

func firstOr(args []string, def string) string {
	if len(args) == 0 {
		return def
	}
	return args[0]
}

func printJSON(v interface{}) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}
