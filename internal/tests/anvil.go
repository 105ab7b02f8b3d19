package tests

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/ethereum/go-ethereum/ethclient"
)

type AnvilConfig struct {
	BlockTime     string `json:"blockTime"`
	PortNumber    string `json:"portNumber"`
	StateFilePath string `json:"stateFilePath"`
	ChainId       string `json:"chainId"`
}

func StartAnvil(ctx context.Context, cfg *AnvilConfig) (*exec.Cmd, error) {
	args := []string{
		"--load-state", cfg.StateFilePath,
		"--chain-id", cfg.ChainId,
		"--port", cfg.PortNumber,
		"--block-time", cfg.BlockTime,
	}
	fmt.Printf("Starting anvil with args: %v\n", args)
	cmd := exec.CommandContext(ctx, "anvil", args...)
	cmd.Stderr = os.Stderr

	joinOutput := os.Getenv("JOIN_ANVIL_OUTPUT")
	if joinOutput == "true" {
		cmd.Stdout = os.Stdout
	}

	err := cmd.Start()
	if err != nil {
		return nil, fmt.Errorf("failed to start anvil: %w", err)
	}

	rpcUrl := fmt.Sprintf("http://localhost:%s", cfg.PortNumber)

	for i := 1; i < 10; i++ {
		client, err := ethclient.DialContext(ctx, rpcUrl)
		if err == nil {
			_, err = client.BlockNumber(ctx)
			client.Close()
			if err == nil {
				fmt.Println("Anvil is up and running")
				return cmd, nil
			}
		}
		fmt.Printf("Anvil not ready yet, retrying... %d\n", i)
		time.Sleep(time.Second * time.Duration(i))
	}

	return nil, fmt.Errorf("failed to start anvil")
}

func KillallAnvils() error {
	cmd := exec.Command("pkill", "-f", "anvil")
	err := cmd.Run()
	if err != nil {
		return fmt.Errorf("failed to kill all anvils: %w", err)
	}
	return nil
}

func KillAnvil(cmd *exec.Cmd) error {
	if cmd == nil || cmd.Process == nil {
		return fmt.Errorf("anvil command is not running")
	}

	if err := cmd.Process.Kill(); err != nil {
		return fmt.Errorf("failed to kill anvil process: %w", err)
	}
	_ = cmd.Wait()

	return nil
}

// StartStateAnvil starts anvil from the committed state dump named in the
// chain config. The dump has the factory deployed and the dev accounts
// funded; without it there is no chain to test against.
func StartStateAnvil(projectRoot string, ctx context.Context, chainConfig *ChainConfig) (*exec.Cmd, error) {
	fullPath, err := filepath.Abs(fmt.Sprintf("%s/%s", projectRoot, chainConfig.AnvilStateFilePath))
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path: %w", err)
	}

	stat, err := os.Stat(fullPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}
	if stat.IsDir() {
		return nil, fmt.Errorf("path is a directory: %s", fullPath)
	}

	return StartAnvil(ctx, &AnvilConfig{
		BlockTime:     chainConfig.BlockTime,
		PortNumber:    chainConfig.PortNumber,
		StateFilePath: fullPath,
		ChainId:       chainConfig.ChainId,
	})
}
