// Command piivault is a small operational helper around the PII hashing
// service: it hashes, verifies, and pseudonymizes individual values with
// the same peppers and cost parameters the library uses in production.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/piivault/piivault-go/piihash"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fatal("%v", err)
	}
}

func run(args []string, out io.Writer) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: piivault <hash|verify|pseudonymize|rehash-check> [args]\n" +
			"  hash <type> <value>\n" +
			"  verify <type> <value> <encoded>\n" +
			"  pseudonymize <email>\n" +
			"  rehash-check <type> <encoded>")
	}

	peppers, err := piihash.LoadPeppersFromEnv()
	if err != nil {
		return fmt.Errorf("load peppers: %w", err)
	}
	hasher := piihash.New(piihash.WithPeppers(peppers))

	switch args[0] {
	case "hash":
		if len(args) != 3 {
			return fmt.Errorf("usage: piivault hash <type> <value>")
		}
		encoded, err := hasher.Hash(piihash.Type(args[1]), args[2])
		if err != nil {
			return err
		}
		fmt.Fprintln(out, encoded)

	case "verify":
		if len(args) != 4 {
			return fmt.Errorf("usage: piivault verify <type> <value> <encoded>")
		}
		ok, err := hasher.Verify(piihash.Type(args[1]), args[2], args[3])
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(out, "no match")
			return fmt.Errorf("value does not match hash")
		}
		fmt.Fprintln(out, "match")

	case "pseudonymize":
		if len(args) != 2 {
			return fmt.Errorf("usage: piivault pseudonymize <email>")
		}
		id, err := hasher.Pseudonymize(args[1])
		if err != nil {
			return err
		}
		fmt.Fprintln(out, id)

	case "rehash-check":
		if len(args) != 3 {
			return fmt.Errorf("usage: piivault rehash-check <type> <encoded>")
		}
		needed, err := hasher.NeedsRehash(piihash.Type(args[1]), args[2])
		if err != nil {
			return err
		}
		if needed {
			fmt.Fprintln(out, "rehash needed")
		} else {
			fmt.Fprintln(out, "up to date")
		}

	default:
		return fmt.Errorf("unknown command: %s", args[0])
	}
	return nil
}

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
