package tests

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
)

func GetProjectRootPath() string {
	wd, err := os.Getwd()
	if err != nil {
		panic(err)
	}
	startingPath := ""
	iterations := 0
	for {
		if iterations > 10 {
			panic("Could not find project root path")
		}
		iterations++
		p, err := filepath.Abs(fmt.Sprintf("%s/%s", wd, startingPath))
		if err != nil {
			panic(err)
		}

		match := regexp.MustCompile(`\/gasway-relay-go([A-Za-z0-9_-]+)?\/?$`)
		if match.MatchString(p) {
			return p
		}
		startingPath = startingPath + "/.."
	}
}

// ChainConfig describes the provisioned anvil state the on-chain integration
// test runs against: a state dump with the factory already deployed, plus
// funded dev keys.
type ChainConfig struct {
	FactoryAddress     string `json:"factoryAddress"`
	RelayerAccountPk   string `json:"relayerAccountPk"`
	OwnerAccountPk     string `json:"ownerAccountPk"`
	ChainId            string `json:"chainId"`
	PortNumber         string `json:"portNumber"`
	BlockTime          string `json:"blockTime"`
	AnvilStateFilePath string `json:"anvilStateFilePath"`
}

func ReadChainConfig(projectRoot string) (*ChainConfig, error) {
	filePath := fmt.Sprintf("%s/internal/testData/chain-config.json", projectRoot)

	file, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var cf *ChainConfig
	if err := json.Unmarshal(file, &cf); err != nil {
		return nil, fmt.Errorf("failed to unmarshal file: %w", err)
	}
	return cf, nil
}
