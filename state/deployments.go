package state

import (
	"encoding/json"
	"os"
	"sync"

	errorsmod "cosmossdk.io/errors"
	"github.com/tessellated-io/conveyor/config"
)

// DeploymentStore records what has been deployed for one chain and deployment.
type DeploymentStore interface {
	CodeID(contractID string) (uint64, error)
	SetCodeID(contractID string, codeID uint64) error
	Address(contractID string) (string, error)
	SetAddress(contractID, address string) error
}

type deployment struct {
	CodeIDs   map[string]uint64 `json:"code_ids"`
	Addresses map[string]string `json:"addresses"`
}

func newDeployment() *deployment {
	return &deployment{
		CodeIDs:   make(map[string]uint64),
		Addresses: make(map[string]string),
	}
}

// stateFile maps chain id to deployment id to records.
type stateFile map[string]map[string]*deployment

// Deployments is a DeploymentStore held in memory and, when backed by a file, written through
// on every change.
type Deployments struct {
	chainID      string
	deploymentID string
	path         string

	lock    sync.RWMutex
	records *deployment
}

// Ensure type conformance
var _ DeploymentStore = (*Deployments)(nil)

// NewMemoryDeployments returns a store that lives as long as the process.
func NewMemoryDeployments(chainID, deploymentID string) *Deployments {
	return &Deployments{
		chainID:      chainID,
		deploymentID: deploymentID,
		records:      newDeployment(),
	}
}

// LoadDeployments opens the JSON state file at path, creating it on the first write. Records of
// other chains and deployments in the file are preserved.
func LoadDeployments(path, chainID, deploymentID string) (*Deployments, error) {
	d := &Deployments{
		chainID:      chainID,
		deploymentID: deploymentID,
		path:         config.ExpandHomeDir(path),
	}

	file, err := d.read()
	if err != nil {
		return nil, err
	}
	d.records = file.deployment(chainID, deploymentID)
	return d, nil
}

func (d *Deployments) CodeID(contractID string) (uint64, error) {
	d.lock.RLock()
	defer d.lock.RUnlock()

	codeID, ok := d.records.CodeIDs[contractID]
	if !ok {
		return 0, errorsmod.Wrapf(ErrNotRecorded, "no code id for %s on %s/%s", contractID, d.chainID, d.deploymentID)
	}
	return codeID, nil
}

func (d *Deployments) SetCodeID(contractID string, codeID uint64) error {
	d.lock.Lock()
	defer d.lock.Unlock()

	d.records.CodeIDs[contractID] = codeID
	return d.persist()
}

func (d *Deployments) Address(contractID string) (string, error) {
	d.lock.RLock()
	defer d.lock.RUnlock()

	address, ok := d.records.Addresses[contractID]
	if !ok {
		return "", errorsmod.Wrapf(ErrNotRecorded, "no address for %s on %s/%s", contractID, d.chainID, d.deploymentID)
	}
	return address, nil
}

func (d *Deployments) SetAddress(contractID, address string) error {
	d.lock.Lock()
	defer d.lock.Unlock()

	d.records.Addresses[contractID] = address
	return d.persist()
}

// Helpers

func (d *Deployments) read() (stateFile, error) {
	file := make(stateFile)

	if !config.FileExists(d.path) {
		return file, nil
	}

	contents, err := os.ReadFile(d.path)
	if err != nil {
		return nil, err
	}
	if len(contents) == 0 {
		return file, nil
	}

	if err := json.Unmarshal(contents, &file); err != nil {
		return nil, errorsmod.Wrapf(err, "malformed state file %s", d.path)
	}
	return file, nil
}

// persist merges this deployment into the file as it is on disk. Callers hold the lock.
func (d *Deployments) persist() error {
	if d.path == "" {
		return nil
	}

	file, err := d.read()
	if err != nil {
		return err
	}
	if file[d.chainID] == nil {
		file[d.chainID] = make(map[string]*deployment)
	}
	file[d.chainID][d.deploymentID] = d.records

	contents, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return err
	}
	return config.AtomicWrite(d.path, contents)
}

func (f stateFile) deployment(chainID, deploymentID string) *deployment {
	record, ok := f[chainID][deploymentID]
	if !ok || record == nil {
		return newDeployment()
	}
	if record.CodeIDs == nil {
		record.CodeIDs = make(map[string]uint64)
	}
	if record.Addresses == nil {
		record.Addresses = make(map[string]string)
	}
	return record
}
