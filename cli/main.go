package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/signalforge/dotenv"
	"github.com/signalforge/dotenv/envelope"
	"github.com/signalforge/dotenv/envmap"
)

func main() {
	var (
		file   string
		key    string
		keyEnv string
	)

	rootCmd := &cobra.Command{
		Use:   "sfdotenv",
		Short: "Load, inspect, and encrypt dotenv files",
		Long:  `A command-line utility for working with dotenv files, including encrypted files wrapped in the SFDOTENV envelope.`,
	}
	rootCmd.PersistentFlags().StringVarP(&file, "file", "f", ".env", "dotenv file to operate on")
	rootCmd.PersistentFlags().StringVar(&key, "key", "", "decryption passphrase")
	rootCmd.PersistentFlags().StringVar(&keyEnv, "key-env", "", "environment variable holding the passphrase")

	loadOpts := func(export bool) *dotenv.Options {
		opts := dotenv.DefaultOptions()
		opts.Export = export
		opts.Key = key
		opts.KeyEnv = keyEnv
		return opts
	}

	keysCmd := &cobra.Command{
		Use:   "keys",
		Short: "List the keys a dotenv file defines",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := dotenv.Load(file, loadOpts(false))
			if err != nil {
				return err
			}
			for _, k := range result.Keys() {
				fmt.Println(k)
			}
			return nil
		},
	}

	var format string
	getCmd := &cobra.Command{
		Use:   "get [KEY]",
		Short: "Print one value or the whole file",
		Long:  `Print the value of a single key, or every key/value pair when no key is given. Output format can be env, json, yaml, or toml.`,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := dotenv.Load(file, loadOpts(false))
			if err != nil {
				return err
			}
			if len(args) == 1 {
				value, ok := result.Get(args[0])
				if !ok {
					return fmt.Errorf("key not found: %s", args[0])
				}
				single := envmap.New[any]()
				single.Set(args[0], value)
				return printResult(single, format, true)
			}
			return printResult(result, format, false)
		},
	}
	getCmd.Flags().StringVar(&format, "format", "env", "output format: env, json, yaml, or toml")

	encryptCmd := &cobra.Command{
		Use:   "encrypt",
		Short: "Encrypt a dotenv file in place",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(file)
			if err != nil {
				return err
			}
			if envelope.IsEnveloped(data) {
				return fmt.Errorf("%s is already encrypted", file)
			}
			passphrase, err := resolveKey(key, keyEnv)
			if err != nil {
				return err
			}
			sealed, err := envelope.Wrap(data, []byte(passphrase))
			if err != nil {
				return err
			}
			return os.WriteFile(file, sealed, 0600)
		},
	}

	var output string
	decryptCmd := &cobra.Command{
		Use:   "decrypt",
		Short: "Decrypt a dotenv file to stdout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(file)
			if err != nil {
				return err
			}
			passphrase, err := resolveKey(key, keyEnv)
			if err != nil {
				return err
			}
			plaintext, err := envelope.Unwrap(data, []byte(passphrase))
			if err != nil {
				return err
			}
			if output != "" {
				return os.WriteFile(output, plaintext, 0600)
			}
			_, err = os.Stdout.Write(plaintext)
			return err
		},
	}
	decryptCmd.Flags().StringVarP(&output, "output", "o", "", "write plaintext to a file instead of stdout")

	var override bool
	runCmd := &cobra.Command{
		Use:   "run -- command [args...]",
		Short: "Run a command with the dotenv file loaded",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := loadOpts(true)
			opts.Override = override
			if _, err := dotenv.Load(file, opts); err != nil {
				return err
			}
			child := exec.Command(args[0], args[1:]...)
			child.Stdin = os.Stdin
			child.Stdout = os.Stdout
			child.Stderr = os.Stderr
			child.Env = os.Environ()
			if err := child.Run(); err != nil {
				if exit, ok := err.(*exec.ExitError); ok {
					os.Exit(exit.ExitCode())
				}
				return err
			}
			return nil
		},
	}
	runCmd.Flags().BoolVar(&override, "override", false, "overwrite variables that already exist")

	rootCmd.AddCommand(keysCmd, getCmd, encryptCmd, decryptCmd, runCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

// resolveKey mirrors the loader's passphrase precedence for the commands
// that call the envelope directly.
func resolveKey(key, keyEnv string) (string, error) {
	if key != "" {
		return key, nil
	}
	names := []string{}
	if keyEnv != "" {
		names = append(names, keyEnv)
	}
	names = append(names, dotenv.KeyEnvVar, dotenv.KeyEnvVarFallback)
	for _, name := range names {
		if v := os.Getenv(name); v != "" {
			return v, nil
		}
	}
	return "", fmt.Errorf("no encryption key found; pass --key or set %s", dotenv.KeyEnvVar)
}

func printResult(result *envmap.Map[any], format string, bare bool) error {
	switch format {
	case "env":
		result.Range(func(k string, v any) bool {
			if bare {
				fmt.Println(stringValue(v))
			} else {
				fmt.Printf("%s=%s\n", k, quoteEnv(stringValue(v)))
			}
			return true
		})
		return nil
	case "json":
		out, err := result.MarshalJSON()
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	case "yaml":
		out, err := yaml.Marshal(result.ToMap())
		if err != nil {
			return err
		}
		fmt.Print(string(out))
		return nil
	case "toml":
		return toml.NewEncoder(os.Stdout).Encode(result.ToMap())
	}
	return fmt.Errorf("unknown format: %s", format)
}

func stringValue(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fmt.Sprint(v)
	}
	return strings.TrimSuffix(buf.String(), "\n")
}

// quoteEnv renders a value so the output parses back to the same string.
// Plain values pass through; anything with whitespace, quotes, or other
// special bytes is double-quoted with dotenv escapes.
func quoteEnv(s string) string {
	if s != "" && !strings.ContainsAny(s, " \t\n\r\"'`#$\\=") {
		return s
	}
	var b strings.Builder
	b.WriteByte('"')
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		case '"', '\\', '$', '`':
			b.WriteByte('\\')
			b.WriteByte(c)
		default:
			b.WriteByte(c)
		}
	}
	b.WriteByte('"')
	return b.String()
}
