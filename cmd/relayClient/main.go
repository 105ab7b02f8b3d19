package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math/big"
	"os"
	"strings"

	"github.com/Gasway-Labs/gasway-relay-go/pkg/accountSigner"
	"github.com/Gasway-Labs/gasway-relay-go/pkg/clients/relayClient"
	"github.com/Gasway-Labs/gasway-relay-go/pkg/digest"
	"github.com/Gasway-Labs/gasway-relay-go/pkg/logger"
	"github.com/Gasway-Labs/gasway-relay-go/pkg/types"
	"github.com/Gasway-Labs/gasway-relay-go/pkg/walletProvider/localSigner"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

func main() {
	app := &cli.App{
		Name:  "relay-client",
		Usage: "Gasway relay client for gasless smart account calls",
		Description: `A client for driving calls through a Gasway relay server.

This client can:
- Request the digest to sign for a call batch
- Sign with a local key across the supported wallet signing schemes
- Submit signed authorizations for gasless execution
- Inspect smart accounts and server health`,
		Version: "1.0.0",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "server-url",
				Aliases: []string{"s"},
				Usage:   "Relay server base URL",
				Value:   "http://localhost:8080",
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "Enable verbose logging",
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "digest",
				Usage: "Request the digest to sign for a call batch",
				Flags: append([]cli.Flag{
					&cli.StringFlag{
						Name:     "owner",
						Usage:    "Owner EOA address",
						Required: true,
					},
				}, callFlags()...),
				Action: digestCommand,
			},
			{
				Name:  "relay",
				Usage: "Sign a call batch with a local key and relay it",
				Flags: append([]cli.Flag{
					&cli.StringFlag{
						Name:     "private-key",
						Aliases:  []string{"k"},
						Usage:    "Owner private key (hex) used to sign the authorization",
						Required: true,
						EnvVars:  []string{"RELAY_CLIENT_PRIVATE_KEY"},
					},
					&cli.StringFlag{
						Name:  "scheme",
						Usage: "Restrict signing to one scheme: raw_hash, personal_sign, typed_data_v4 or prefixed_message",
					},
				}, callFlags()...),
				Action: relayCommand,
			},
			{
				Name:  "account",
				Usage: "Look up an owner's smart account without deploying it",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "owner",
						Usage:    "Owner EOA address",
						Required: true,
					},
				},
				Action: accountCommand,
			},
			{
				Name:   "health",
				Usage:  "Check server health and relayer funding",
				Action: healthCommand,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// callFlags are the shared flags describing the call batch: either a JSON
// batch (inline or a file path) or a single call spelled out field by field.
func callFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "calls",
			Usage: "Call batch as a JSON array, or a path to a JSON file",
		},
		&cli.StringFlag{
			Name:  "to",
			Usage: "Target address for a single call",
		},
		&cli.StringFlag{
			Name:  "value",
			Usage: "Wei to send with the call (decimal)",
		},
		&cli.StringFlag{
			Name:  "data",
			Usage: "Calldata for the call (hex)",
		},
	}
}

// createClient creates a relay client from CLI context
func createClient(c *cli.Context) (*relayClient.Client, *zap.Logger, error) {
	zapLogger, err := logger.NewLogger(&logger.LoggerConfig{Debug: c.Bool("verbose")})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create logger: %w", err)
	}

	client, err := relayClient.NewClient(&relayClient.ClientConfig{
		BaseURL: c.String("server-url"),
		Logger:  zapLogger,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create relay client: %w", err)
	}

	return client, zapLogger, nil
}

// parseCalls builds the call batch from the shared flags
func parseCalls(c *cli.Context) (types.CallBatch, error) {
	if callsArg := c.String("calls"); callsArg != "" {
		data := []byte(callsArg)
		if _, statErr := os.Stat(callsArg); statErr == nil {
			// It's a file
			fileData, readErr := os.ReadFile(callsArg)
			if readErr != nil {
				return nil, fmt.Errorf("failed to read calls file: %w", readErr)
			}
			data = fileData
		}

		var calls types.CallBatch
		if err := json.Unmarshal(data, &calls); err != nil {
			return nil, fmt.Errorf("failed to parse calls: %w", err)
		}
		return calls, nil
	}

	toArg := c.String("to")
	if toArg == "" {
		return nil, fmt.Errorf("either --calls or --to is required")
	}
	if !common.IsHexAddress(toArg) {
		return nil, fmt.Errorf("invalid target address %q", toArg)
	}

	value := new(big.Int)
	if valueArg := c.String("value"); valueArg != "" {
		if _, ok := value.SetString(valueArg, 10); !ok {
			return nil, fmt.Errorf("invalid value %q, expected wei as a decimal", valueArg)
		}
	}

	var data []byte
	if dataArg := c.String("data"); dataArg != "" {
		decoded, err := hexutil.Decode(dataArg)
		if err != nil {
			return nil, fmt.Errorf("invalid calldata: %w", err)
		}
		data = decoded
	}

	return types.CallBatch{{
		To:    common.HexToAddress(toArg),
		Value: value,
		Data:  data,
	}}, nil
}

func parseOwner(c *cli.Context) (common.Address, error) {
	ownerArg := c.String("owner")
	if !common.IsHexAddress(ownerArg) {
		return common.Address{}, fmt.Errorf("invalid owner address %q", ownerArg)
	}
	return common.HexToAddress(ownerArg), nil
}

// digestCommand handles the digest subcommand
func digestCommand(c *cli.Context) error {
	client, _, err := createClient(c)
	if err != nil {
		return err
	}

	owner, err := parseOwner(c)
	if err != nil {
		return err
	}
	calls, err := parseCalls(c)
	if err != nil {
		return err
	}

	resp, err := client.GetDigestToSign(context.Background(), owner, calls)
	if err != nil {
		return describeFailure(err)
	}

	fmt.Printf("📋 Digest to sign\n")
	fmt.Printf("  digest:        %s\n", resp.Digest.Hex())
	fmt.Printf("  nonce:         %s\n", (*big.Int)(resp.Nonce).String())
	fmt.Printf("  smart account: %s\n", resp.SmartAccountAddress.Hex())
	fmt.Printf("  chain id:      %s\n", (*big.Int)(resp.ChainID).String())
	return nil
}

// relayCommand handles the relay subcommand: digest, local signing, submit
func relayCommand(c *cli.Context) error {
	client, zapLogger, err := createClient(c)
	if err != nil {
		return err
	}

	privateKey, err := crypto.HexToECDSA(strings.TrimPrefix(c.String("private-key"), "0x"))
	if err != nil {
		return fmt.Errorf("failed to parse private key: %w", err)
	}
	owner := crypto.PubkeyToAddress(privateKey.PublicKey)

	calls, err := parseCalls(c)
	if err != nil {
		return err
	}

	signerConfig := &localSigner.LocalSignerConfig{
		PrivateKey: privateKey,
		Logger:     zapLogger,
	}
	if schemeArg := c.String("scheme"); schemeArg != "" {
		scheme, err := types.ParseSigningScheme(schemeArg)
		if err != nil {
			return err
		}
		signerConfig.EnabledSchemes = []types.SigningScheme{scheme}
	}
	provider, err := localSigner.NewLocalSigner(signerConfig)
	if err != nil {
		return fmt.Errorf("failed to create signer: %w", err)
	}
	acquirer, err := accountSigner.NewAcquirer(&accountSigner.AcquirerConfig{
		Provider: provider,
		Logger:   zapLogger,
	})
	if err != nil {
		return fmt.Errorf("failed to create signature acquirer: %w", err)
	}

	ctx := context.Background()

	fmt.Printf("📋 Requesting digest for %s\n", owner.Hex())
	digestResp, err := client.GetDigestToSign(ctx, owner, calls)
	if err != nil {
		return describeFailure(err)
	}

	// Rebuild the payload locally and refuse to sign anything that does not
	// match what we asked for.
	payload, err := digest.BuildPayload(
		(*big.Int)(digestResp.ChainID),
		digestResp.SmartAccountAddress,
		calls,
		(*big.Int)(digestResp.Nonce),
	)
	if err != nil {
		return fmt.Errorf("failed to rebuild signing payload: %w", err)
	}
	if payload.Digest != digestResp.Digest {
		return fmt.Errorf("server digest %s does not match locally computed %s; refusing to sign",
			digestResp.Digest.Hex(), payload.Digest.Hex())
	}

	auth, err := acquirer.AcquireSignature(ctx, payload)
	if err != nil {
		return fmt.Errorf("failed to acquire signature: %w", err)
	}
	fmt.Printf("✍️  Signed with scheme: %s\n", auth.Scheme)

	relayResp, err := client.SubmitRelay(ctx, &types.RelayRequest{
		Owner:     owner,
		Calls:     calls,
		Signature: auth.Signature,
		Scheme:    auth.Scheme,
		Nonce:     digestResp.Nonce,
	})
	if err != nil {
		return describeFailure(err)
	}

	fmt.Printf("✅ Relayed\n")
	fmt.Printf("  transaction:   %s\n", relayResp.TransactionHash.Hex())
	fmt.Printf("  smart account: %s\n", relayResp.SmartAccountAddress.Hex())
	return nil
}

// accountCommand handles the account subcommand
func accountCommand(c *cli.Context) error {
	client, _, err := createClient(c)
	if err != nil {
		return err
	}

	owner, err := parseOwner(c)
	if err != nil {
		return err
	}

	resp, err := client.GetAccount(context.Background(), owner)
	if err != nil {
		return describeFailure(err)
	}

	fmt.Printf("🔎 Smart account for %s\n", resp.Owner.Hex())
	fmt.Printf("  address:  %s\n", resp.SmartAccountAddress.Hex())
	fmt.Printf("  deployed: %t\n", resp.Deployed)
	if resp.CachedNonce != nil {
		fmt.Printf("  nonce:    %s (cached)\n", (*big.Int)(resp.CachedNonce).String())
	}
	return nil
}

// healthCommand handles the health subcommand
func healthCommand(c *cli.Context) error {
	client, _, err := createClient(c)
	if err != nil {
		return err
	}

	resp, err := client.Health(context.Background())
	if err != nil {
		return describeFailure(err)
	}

	fmt.Printf("✅ Server healthy\n")
	fmt.Printf("  relayer:     %s\n", resp.RelayerAddress)
	fmt.Printf("  balance_wei: %s\n", resp.RelayerBalance)
	return nil
}

// describeFailure adds a hint for the typed failures a caller can act on.
func describeFailure(err error) error {
	var relayErr *types.RelayError
	if !errors.As(err, &relayErr) {
		return err
	}

	switch relayErr.Kind {
	case types.KindStaleNonce:
		return fmt.Errorf("%w\nThe account nonce changed; re-run to sign a fresh digest", err)
	case types.KindRateLimited:
		return fmt.Errorf("%w\nSlow down and retry shortly", err)
	case types.KindTimeout:
		return fmt.Errorf("%w\nThe transaction may still confirm; check the account before retrying", err)
	default:
		return err
	}
}
