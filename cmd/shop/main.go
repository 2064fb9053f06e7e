// Command shop is a terminal storefront: it loads the catalog once and reads
// commands from stdin.
//
//	search <text>   filter by title (debounced)
//	list            show the filtered catalog
//	add <id>        add one unit to the cart
//	remove <id>     drop a cart line
//	wish <id>       save to the wishlist
//	unwish <id>     remove from the wishlist
//	cart            show cart, wishlist and total
//	checkout        print the WhatsApp order link
//	quit
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/go-faster/errors"
	"github.com/sirupsen/logrus"

	"shopfront/config"
	models "shopfront/model"
	"shopfront/storefront"
)

func main() {
	var (
		envFile  = flag.String("env", ".env", "Optional .env file")
		email    = flag.String("email", "", "Log in with this email before shopping")
		password = flag.String("password", "", "Password for -email")
	)
	flag.Parse()

	log := logrus.New()
	log.SetOutput(os.Stderr)

	cfg, err := config.LoadClient(*envFile)
	if err != nil {
		log.WithError(err).Fatal("load config")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	session := storefront.NewMemorySession()
	if *email != "" {
		auth := storefront.NewAuthClient(cfg.AuthBaseURL, cfg.ProjectKey, cfg.HTTPTimeout, session)
		if _, err := auth.Login(ctx, *email, *password); err != nil {
			log.WithError(err).Fatal("login")
		}
	}

	searched := make(chan string, 1)
	sf := storefront.New(storefront.NewClient(cfg.APIBaseURL, cfg.HTTPTimeout), storefront.Options{
		SearchDebounce: cfg.SearchDebounce,
		WhatsAppNumber: cfg.WhatsAppNumber,
		Session:        session,
		Launcher: storefront.LauncherFunc(func(_ context.Context, link string) error {
			_, err := fmt.Fprintln(os.Stdout, link)
			return err
		}),
		OnSearch: func(term string) {
			select {
			case searched <- term:
			default:
			}
		},
	})
	defer sf.Close()

	if err := sf.Load(ctx); err != nil {
		log.WithError(err).Fatal("load catalog")
	}
	if g := sf.Greeting(); g != "" {
		fmt.Println(g)
	}

	if err := repl(ctx, sf, os.Stdin, os.Stdout, searched); err != nil && !errors.Is(err, context.Canceled) {
		log.WithError(err).Fatal("shop")
	}
}

func repl(ctx context.Context, sf *storefront.Storefront, in io.Reader, out io.Writer, searched <-chan string) error {
	sc := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !sc.Scan() {
			return sc.Err()
		}
		cmd, arg, _ := strings.Cut(strings.TrimSpace(sc.Text()), " ")
		arg = strings.TrimSpace(arg)

		switch cmd {
		case "":
		case "quit", "exit":
			return nil
		case "search":
			sf.Search(arg)
			select {
			case <-searched:
			case <-ctx.Done():
				return ctx.Err()
			}
			printProducts(out, sf.Products())
		case "list":
			printProducts(out, sf.Products())
		case "add":
			if p, ok := find(sf, arg); ok {
				sf.AddToCart(p)
			} else {
				fmt.Fprintln(out, "no such product")
			}
		case "remove":
			sf.RemoveFromCart(arg)
		case "wish":
			p, ok := find(sf, arg)
			if !ok {
				fmt.Fprintln(out, "no such product")
				continue
			}
			if err := sf.AddToWishlist(p); err != nil {
				fmt.Fprintln(out, err)
			}
		case "unwish":
			sf.RemoveFromWishlist(arg)
		case "cart":
			for _, l := range sf.Cart() {
				fmt.Fprintf(out, "%s  %s x%d\n", l.Product.ID, l.Product.Title, l.Quantity)
			}
			for _, w := range sf.Wishlist() {
				fmt.Fprintf(out, "♡ %s  %s\n", w.Product.ID, w.Product.Title)
			}
			fmt.Fprintf(out, "Total: ₹%s\n", sf.Total().StringFixed(2))
		case "checkout":
			if _, err := sf.Checkout(ctx); err != nil {
				fmt.Fprintln(out, err)
			}
		default:
			fmt.Fprintf(out, "unknown command %q\n", cmd)
		}
	}
}

// find looks the id up in the full catalog, not just the filtered view.
func find(sf *storefront.Storefront, id string) (models.Product, bool) {
	for _, p := range sf.All() {
		if p.ID == id {
			return p, true
		}
	}
	return models.Product{}, false
}

func printProducts(out io.Writer, ps []models.Product) {
	for _, p := range ps {
		fmt.Fprintf(out, "%s  %-30s ₹%.2f\n", p.ID, p.Title, p.Price)
	}
}
