package main

import (
	"context"
	"fmt"
	"os"

	"github.com/Gasway-Labs/gasway-relay-go/pkg/accountResolver"
	"github.com/Gasway-Labs/gasway-relay-go/pkg/bindings/SmartAccount"
	"github.com/Gasway-Labs/gasway-relay-go/pkg/bindings/SmartAccountFactory"
	"github.com/Gasway-Labs/gasway-relay-go/pkg/logger"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
)

// Reads the factory's view of an owner directly from the chain, bypassing the
// relay server. Useful when the server's account store and the chain disagree.
func main() {
	l, _ := logger.NewLogger(&logger.LoggerConfig{Debug: false})

	rpcUrl := os.Getenv("RPC_URL")
	if rpcUrl == "" {
		rpcUrl = "http://localhost:8545"
	}
	factoryArg := os.Getenv("FACTORY_ADDRESS")
	if factoryArg == "" {
		l.Sugar().Fatal("FACTORY_ADDRESS environment variable is not set")
	}
	ownerArg := os.Getenv("OWNER")
	if ownerArg == "" {
		l.Sugar().Fatal("OWNER environment variable is not set")
	}
	if !common.IsHexAddress(factoryArg) || !common.IsHexAddress(ownerArg) {
		l.Sugar().Fatal("FACTORY_ADDRESS and OWNER must be hex addresses")
	}
	owner := common.HexToAddress(ownerArg)

	ctx := context.Background()
	ethClient, err := ethclient.Dial(rpcUrl)
	if err != nil {
		l.Sugar().Fatalw("failed to connect to RPC", "error", err)
	}

	factory, err := SmartAccountFactory.NewSmartAccountFactoryCaller(common.HexToAddress(factoryArg), ethClient)
	if err != nil {
		l.Sugar().Fatalw("failed to bind factory", "error", err)
	}

	salt := accountResolver.SaltForOwner(owner)
	account, err := factory.GetSmartAccountAddress(&bind.CallOpts{Context: ctx}, owner, salt)
	if err != nil {
		l.Sugar().Fatalw("failed to query factory", "error", err)
	}

	code, err := ethClient.CodeAt(ctx, account, nil)
	if err != nil {
		l.Sugar().Fatalw("failed to read account code", "error", err)
	}

	fmt.Printf("Owner:         %s\n", owner.Hex())
	fmt.Printf("Salt:          %s\n", common.Hash(salt).Hex())
	fmt.Printf("Smart account: %s\n", account.Hex())
	fmt.Printf("Deployed:      %t\n", len(code) > 0)

	if len(code) == 0 {
		return
	}

	accountContract, err := SmartAccount.NewSmartAccountCaller(account, ethClient)
	if err != nil {
		l.Sugar().Fatalw("failed to bind smart account", "error", err)
	}
	onChainOwner, err := accountContract.Owner(&bind.CallOpts{Context: ctx})
	if err != nil {
		l.Sugar().Fatalw("failed to read account owner", "error", err)
	}
	nonce, err := accountContract.Nonce(&bind.CallOpts{Context: ctx})
	if err != nil {
		l.Sugar().Fatalw("failed to read account nonce", "error", err)
	}

	fmt.Printf("On-chain owner: %s\n", onChainOwner.Hex())
	fmt.Printf("Nonce:          %s\n", nonce.String())
	if onChainOwner != owner {
		fmt.Println("WARNING: on-chain owner does not match the queried owner")
	}
}
