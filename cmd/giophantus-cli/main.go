// Package main provides the giophantus-cli command line interface.
package main

import (
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	giophantus "github.com/BackendStack21/giophantus-go"
	"github.com/BackendStack21/giophantus-go/analysis"
	"github.com/BackendStack21/giophantus-go/core"
	"github.com/BackendStack21/giophantus-go/irreducible"
	"github.com/BackendStack21/giophantus-go/pke"
	"github.com/BackendStack21/giophantus-go/ring"
	"github.com/BackendStack21/giophantus-go/sampler"
	"github.com/BackendStack21/giophantus-go/utils"
)

const (
	version = "0.3.0"
	appName = "giophantus-cli"

	// MaxInputFileSize bounds every file the CLI reads.
	MaxInputFileSize = 16 * 1024 * 1024

	domainKeyCheck = "giophantus-cli-key-check-v1"
)

// OutputFormat is the text encoding of binary payloads.
type OutputFormat string

const (
	FormatHex    OutputFormat = "hex"
	FormatBase64 OutputFormat = "base64"
)

// Message encodings recorded in an EncryptedExport.
const (
	EncodingBytes  = "bytes"
	EncodingCoeffs = "coefficients"
)

// CLIConfig holds the options shared by all commands.
type CLIConfig struct {
	Params       giophantus.Params
	OutputFormat OutputFormat
	OutputFile   string
	InputFile    string
	PRNG         utils.PRNGKind
	Seed         []byte
	Verbose      bool
	Timing       bool
}

// KeyPairExport is the JSON form of a key pair.
type KeyPairExport struct {
	SecurityLevel string            `json:"security_level"`
	Params        giophantus.Params `json:"params"`
	Format        OutputFormat      `json:"format"`
	PublicKey     string            `json:"public_key"`
	SecretKey     string            `json:"secret_key"`
	Trials        int               `json:"trials"`
	Tester        string            `json:"tester"`
	CreatedAt     string            `json:"created_at"`
	KeyCheck      string            `json:"key_check"`
}

// EncryptedExport is the JSON form of a ciphertext.
type EncryptedExport struct {
	SecurityLevel string       `json:"security_level"`
	Encoding      string       `json:"encoding"`
	Format        OutputFormat `json:"format"`
	Ciphertext    string       `json:"ciphertext"`
}

// ParamsExport describes a parameter set and the values derived from it.
type ParamsExport struct {
	Params          giophantus.Params `json:"params"`
	NoiseWidth      int64             `json:"noise_width"`
	Blocks          int               `json:"blocks"`
	MaxMessageBytes int               `json:"max_message_bytes"`
	MaxDecodedValue int64             `json:"max_decoded_value"`
}

type app struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	logger *zap.Logger
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// run executes one command and returns the process exit code.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if len(args) < 1 {
		printUsage(stdout)
		return 1
	}

	a := &app{
		stdin:  stdin,
		stdout: stdout,
		stderr: stderr,
		logger: newLogger(stderr, hasFlag(args[1:], "--verbose", "-v")),
	}
	defer func() { _ = a.logger.Sync() }()

	var err error
	switch command := args[0]; command {
	case "help", "--help", "-h":
		printUsage(stdout)
		return 0
	case "version", "--version":
		fmt.Fprintf(stdout, "%s version %s\n", appName, version)
		fmt.Fprintf(stdout, "giophantus library version %s\n", giophantus.Version)
		return 0
	case "keygen":
		err = a.keygen(args[1:])
	case "encrypt":
		err = a.encrypt(args[1:])
	case "decrypt":
		err = a.decrypt(args[1:])
	case "params":
		err = a.params(args[1:])
	case "benchmark":
		err = a.benchmark(args[1:])
	case "analyze":
		err = a.analyze(args[1:])
	default:
		fmt.Fprintf(stderr, "Unknown command: %s\n", command)
		printUsage(stderr)
		return 1
	}

	if err != nil {
		a.logger.Debug("command failed", zap.String("command", args[0]), zap.Error(err))
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// newLogger builds a console logger on w. Verbose runs log from Debug,
// others only warnings and errors.
func newLogger(w io.Writer, verbose bool) *zap.Logger {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	level := zapcore.WarnLevel
	if verbose {
		level = zapcore.DebugLevel
	}
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig), zapcore.AddSync(w), level)
	return zap.New(core).Named(appName)
}

func printUsage(w io.Writer) {
	fmt.Fprintf(w, `%s - Giophantus public-key encryption CLI

USAGE:
    %s <COMMAND> [OPTIONS]

COMMANDS:
    keygen      Generate a key pair
    encrypt     Encrypt a message under a public key
    decrypt     Decrypt a ciphertext with a secret key
    params      Show a parameter set and its derived values
    benchmark   Time key generation, encryption and decryption
    analyze     Collect key-generation and timing statistics as JSON
    version     Show version information
    help        Show this help message

OPTIONS:
    -l, --level <128|192|256>   Security level (default 128)
    -p, --params <file>         JSON parameter file, overrides --level
    -o, --output <file>         Write output to file (mode 0600)
    -f, --format <hex|base64>   Encoding of binary payloads (default base64)
    -s, --seed <hex>            Deterministic seed (at least 32 bytes)
        --prng <name>           shake256, blake2b or blake3 (default shake256)
        --tester <name>         image or univariate (keygen)
        --max-trials <n>        Key generation trial budget (keygen)
    -pk, --public-key <file>    Public key file (encrypt)
    -sk, --secret-key <file>    Secret key file (decrypt)
    -ct, --ciphertext <file>    Ciphertext file (decrypt)
    -m, --message <text>        Message text (encrypt)
    -c, --coeffs <list>         Message coefficients, e.g. 1,0,3 (encrypt)
    -i, --input <file>          Read the message from a file (encrypt)
    -n, --iterations <n>        Iterations (benchmark, analyze)
    -t, --timing                Report timing on stderr
    -v, --verbose               Debug logging on stderr

EXAMPLES:
    %s keygen --level 128 --output keypair.json
    %s encrypt --public-key keypair.json --message "hi" --output ct.json
    %s decrypt --secret-key keypair.json --ciphertext ct.json
    %s encrypt --public-key keypair.json --coeffs 1,0,3
`, appName, appName, appName, appName, appName, appName)
}

// ============================================================================
// Commands
// ============================================================================

func (a *app) keygen(args []string) error {
	config, err := parseConfig(args)
	if err != nil {
		return err
	}

	tester := irreducible.Default()
	if name := getArg(args, "--tester", ""); name != "" {
		var ok bool
		if tester, ok = irreducible.ByName(name); !ok {
			return fmt.Errorf("unknown tester %q, must be one of: image, univariate", name)
		}
	}
	opts := []pke.Option{pke.WithLogger(a.logger), pke.WithTester(tester), pke.WithPRNG(config.PRNG)}
	if s := getArg(args, "--max-trials", ""); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			return fmt.Errorf("invalid --max-trials %q", s)
		}
		opts = append(opts, pke.WithMaxTrials(n))
	}

	start := time.Now()
	var kp *pke.KeyPair
	switch {
	case config.Seed != nil:
		kp, err = pke.GenerateKeyPairFromSeed(config.Params, config.Seed, opts...)
	case isPreset(config.Params):
		kp, err = pke.GenerateKeyPair(config.Params.Level, opts...)
	default:
		seed, serr := utils.SecureRandomBytes(utils.MinSeedLength)
		if serr != nil {
			return serr
		}
		kp, err = pke.GenerateKeyPairFromSeed(config.Params, seed, opts...)
		utils.Zeroize(seed)
	}
	elapsed := time.Since(start)
	if err != nil {
		return fmt.Errorf("generating key pair: %w", err)
	}
	if config.Timing {
		fmt.Fprintf(a.stderr, "Key generation took: %v\n", elapsed)
	}

	pkBytes := pke.SerializePublicKey(&kp.PublicKey)
	skBytes := pke.SerializeSecretKey(&kp.SecretKey)
	defer utils.Zeroize(skBytes)

	export := KeyPairExport{
		SecurityLevel: string(config.Params.Level),
		Params:        config.Params,
		Format:        config.OutputFormat,
		PublicKey:     encodeBytes(pkBytes, config.OutputFormat),
		SecretKey:     encodeBytes(skBytes, config.OutputFormat),
		Trials:        kp.Trials,
		Tester:        tester.Name(),
		CreatedAt:     time.Now().UTC().Format(time.RFC3339),
		KeyCheck:      keyCheck(pkBytes, skBytes),
	}
	output, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling output: %w", err)
	}
	if err := writeOutput(output, config.OutputFile, a.stdout); err != nil {
		return err
	}

	a.logger.Debug("key pair written",
		zap.String("level", string(config.Params.Level)),
		zap.Int("public_key_bytes", len(pkBytes)),
		zap.Int("secret_key_bytes", len(skBytes)),
		zap.Int("trials", kp.Trials),
	)
	return nil
}

func (a *app) encrypt(args []string) error {
	config, err := parseConfig(args)
	if err != nil {
		return err
	}
	pkFile := getArg(args, "--public-key", "-pk")
	if pkFile == "" {
		return errors.New("--public-key is required")
	}

	pkData, err := loadKeyFromFile(pkFile, "public_key")
	if err != nil {
		return fmt.Errorf("loading public key: %w", err)
	}
	pk, err := pke.DeserializePublicKey(pkData)
	if err != nil {
		return fmt.Errorf("deserializing public key: %w", err)
	}

	s, err := newSampler(config, pke.DomainEncrypt)
	if err != nil {
		return err
	}

	var ct *pke.Ciphertext
	encoding := EncodingBytes
	start := time.Now()
	if coeffs := getArg(args, "--coeffs", "-c"); coeffs != "" {
		m, perr := parseCoefficients(coeffs)
		if perr != nil {
			return perr
		}
		encoding = EncodingCoeffs
		ct, err = pke.Encrypt(m, *pk, pk.Params, s, pke.WithLogger(a.logger))
	} else {
		msg, rerr := a.readMessage(args, config)
		if rerr != nil {
			return rerr
		}
		ct, err = pke.EncryptBytes(msg, *pk, s, pke.WithLogger(a.logger))
	}
	elapsed := time.Since(start)
	if err != nil {
		return fmt.Errorf("encrypting: %w", err)
	}
	if config.Timing {
		fmt.Fprintf(a.stderr, "Encryption took: %v\n", elapsed)
	}

	ctBytes := pke.SerializeCiphertext(ct)
	export := EncryptedExport{
		SecurityLevel: string(pk.Params.Level),
		Encoding:      encoding,
		Format:        config.OutputFormat,
		Ciphertext:    encodeBytes(ctBytes, config.OutputFormat),
	}
	output, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling output: %w", err)
	}
	a.logger.Debug("ciphertext written", zap.Int("ciphertext_bytes", len(ctBytes)), zap.Int("blocks", len(ct.Blocks)))
	return writeOutput(output, config.OutputFile, a.stdout)
}

func (a *app) decrypt(args []string) error {
	config, err := parseConfig(args)
	if err != nil {
		return err
	}
	skFile := getArg(args, "--secret-key", "-sk")
	ctFile := getArg(args, "--ciphertext", "-ct")
	if skFile == "" || ctFile == "" {
		return errors.New("--secret-key and --ciphertext are required")
	}

	skData, err := loadKeyFromFile(skFile, "secret_key")
	if err != nil {
		return fmt.Errorf("loading secret key: %w", err)
	}
	defer utils.Zeroize(skData)
	if err := verifyKeyCheck(skFile); err != nil {
		return err
	}
	sk, err := pke.DeserializeSecretKey(skData)
	if err != nil {
		return fmt.Errorf("deserializing secret key: %w", err)
	}
	defer sk.Zeroize()

	ctData, err := loadKeyFromFile(ctFile, "ciphertext")
	if err != nil {
		return fmt.Errorf("loading ciphertext: %w", err)
	}
	ct, err := pke.DeserializeCiphertext(ctData)
	if err != nil {
		return fmt.Errorf("deserializing ciphertext: %w", err)
	}

	start := time.Now()
	m, err := pke.Decrypt(ct, *sk)
	elapsed := time.Since(start)
	if err != nil {
		return fmt.Errorf("decrypting: %w", err)
	}
	if config.Timing {
		fmt.Fprintf(a.stderr, "Decryption took: %v\n", elapsed)
	}

	if readEncoding(ctFile) == EncodingCoeffs {
		output, err := json.Marshal(m.Coeffs)
		if err != nil {
			return err
		}
		if m.Coeffs == nil {
			output = []byte("[]")
		}
		return writeOutput(output, config.OutputFile, a.stdout)
	}
	msg, err := pke.DecodeBytes(m, sk.Params)
	if err != nil {
		return fmt.Errorf("decoding message: %w", err)
	}
	return writeOutput(msg, config.OutputFile, a.stdout)
}

func (a *app) params(args []string) error {
	config, err := parseConfig(args)
	if err != nil {
		return err
	}
	p := config.Params
	export := ParamsExport{
		Params:          p,
		NoiseWidth:      core.NoiseWidth(p),
		Blocks:          core.Blocks(p),
		MaxMessageBytes: pke.MaxMessageBytes(p),
		MaxDecodedValue: core.MaxDecodedValue(p),
	}
	output, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return err
	}
	return writeOutput(output, config.OutputFile, a.stdout)
}

func (a *app) benchmark(args []string) error {
	config, err := parseConfig(args)
	if err != nil {
		return err
	}
	iterations, err := parseIterations(args, 10)
	if err != nil {
		return err
	}
	params := config.Params

	fmt.Fprintf(a.stdout, "Giophantus Benchmark Results\n")
	fmt.Fprintf(a.stdout, "============================\n")
	fmt.Fprintf(a.stdout, "Security Level: %s (q=%d, n=%d, l=%d, dX=%d, dr=%d)\n",
		params.Level, params.Q, params.N, params.L, params.DX, params.DR)
	fmt.Fprintf(a.stdout, "Iterations: %d\n\n", iterations)

	s, err := newSampler(config, "giophantus-benchmark")
	if err != nil {
		return err
	}

	var keygenTotal time.Duration
	var kp *pke.KeyPair
	trials := 0
	for i := 0; i < iterations; i++ {
		start := time.Now()
		kp, err = pke.KeyGen(params, s)
		keygenTotal += time.Since(start)
		if err != nil {
			return fmt.Errorf("keygen: %w", err)
		}
		trials += kp.Trials
	}
	fmt.Fprintf(a.stdout, "  KeyGen:  %v (avg, %.2f trials)\n", keygenTotal/time.Duration(iterations), float64(trials)/float64(iterations))

	m, err := s.Sample(params.MLen-1, params.L)
	if err != nil {
		return err
	}
	var encryptTotal time.Duration
	var ct *pke.Ciphertext
	for i := 0; i < iterations; i++ {
		start := time.Now()
		ct, err = pke.Encrypt(m, kp.PublicKey, params, s)
		encryptTotal += time.Since(start)
		if err != nil {
			return fmt.Errorf("encrypt: %w", err)
		}
	}
	fmt.Fprintf(a.stdout, "  Encrypt: %v (avg)\n", encryptTotal/time.Duration(iterations))

	var decryptTotal time.Duration
	for i := 0; i < iterations; i++ {
		start := time.Now()
		got, err := pke.Decrypt(ct, kp.SecretKey)
		decryptTotal += time.Since(start)
		if err != nil {
			return fmt.Errorf("decrypt: %w", err)
		}
		if !ring.Equal(got, m) {
			return errors.New("decrypt: message mismatch")
		}
	}
	fmt.Fprintf(a.stdout, "  Decrypt: %v (avg)\n", decryptTotal/time.Duration(iterations))

	fmt.Fprintf(a.stdout, "\n  Public key: %d bytes\n", len(pke.SerializePublicKey(&kp.PublicKey)))
	fmt.Fprintf(a.stdout, "  Ciphertext: %d bytes\n", len(pke.SerializeCiphertext(ct)))
	fmt.Fprintln(a.stdout)
	fmt.Fprintln(a.stdout, "Benchmark complete!")
	return nil
}

func (a *app) analyze(args []string) error {
	config, err := parseConfig(args)
	if err != nil {
		return err
	}
	iterations, err := parseIterations(args, 20)
	if err != nil {
		return err
	}
	report, err := analysis.Run(config.Params, analysis.Config{
		Iterations: iterations,
		PRNG:       config.PRNG,
		Seed:       config.Seed,
		Options:    []pke.Option{pke.WithLogger(a.logger)},
	})
	if err != nil {
		return err
	}
	output, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}
	return writeOutput(output, config.OutputFile, a.stdout)
}

// ============================================================================
// Utility Functions
// ============================================================================

func parseConfig(args []string) (CLIConfig, error) {
	config := CLIConfig{
		Params:       core.Param128,
		OutputFormat: FormatBase64,
		PRNG:         utils.DefaultPRNG,
	}

	level := getArg(args, "--level", "-l")
	switch level {
	case "128", "GIO-128", "GIO_128":
		config.Params = core.Param128
	case "192", "GIO-192", "GIO_192":
		config.Params = core.Param192
	case "256", "GIO-256", "GIO_256":
		config.Params = core.Param256
	case "":
	default:
		return config, fmt.Errorf("invalid security level '%s'. Must be one of: 128, 192, 256", level)
	}

	if file := getArg(args, "--params", "-p"); file != "" {
		p, err := core.LoadParams(file)
		if err != nil {
			return config, err
		}
		config.Params = p
	}

	switch format := getArg(args, "--format", "-f"); format {
	case "hex":
		config.OutputFormat = FormatHex
	case "base64", "":
	default:
		return config, fmt.Errorf("invalid format '%s'. Must be one of: hex, base64", format)
	}

	kind, err := utils.ParsePRNGKind(getArg(args, "--prng", ""))
	if err != nil {
		return config, err
	}
	config.PRNG = kind

	if seed := getArg(args, "--seed", "-s"); seed != "" {
		b, err := hex.DecodeString(seed)
		if err != nil {
			return config, fmt.Errorf("--seed must be hex: %w", err)
		}
		if err := utils.ValidateSeedEntropy(b); err != nil {
			return config, err
		}
		config.Seed = b
	}

	config.OutputFile = getArg(args, "--output", "-o")
	config.InputFile = getArg(args, "--input", "-i")
	config.Verbose = hasFlag(args, "--verbose", "-v")
	config.Timing = hasFlag(args, "--timing", "-t")
	return config, nil
}

// isPreset reports whether p is exactly the preset its level names. A
// params file may reuse a preset name with other values.
func isPreset(p giophantus.Params) bool {
	preset, err := core.GetParams(p.Level)
	return err == nil && preset == p
}

func getArg(args []string, long, short string) string {
	for i := 0; i < len(args)-1; i++ {
		if args[i] == long || (short != "" && args[i] == short) {
			return args[i+1]
		}
	}
	return ""
}

func hasFlag(args []string, long, short string) bool {
	for _, arg := range args {
		if arg == long || arg == short {
			return true
		}
	}
	return false
}

func parseIterations(args []string, def int) (int, error) {
	s := getArg(args, "--iterations", "-n")
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid --iterations %q", s)
	}
	return n, nil
}

// parseCoefficients reads a comma-separated coefficient list, lowest degree first.
func parseCoefficients(s string) (ring.Poly, error) {
	fields := strings.Split(s, ",")
	coeffs := make([]int64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseInt(strings.TrimSpace(f), 10, 64)
		if err != nil {
			return ring.Poly{}, fmt.Errorf("invalid coefficient %q: %w", f, err)
		}
		coeffs[i] = v
	}
	return ring.NewPoly(coeffs...), nil
}

// newSampler returns a sampler over the configured PRNG, keyed by the
// --seed value or by fresh entropy.
func newSampler(config CLIConfig, domain string) (*sampler.Sampler, error) {
	seed := config.Seed
	if seed == nil {
		var err error
		if seed, err = utils.SecureRandomBytes(utils.MinSeedLength); err != nil {
			return nil, err
		}
		defer utils.Zeroize(seed)
	}
	src, err := utils.NewPRNG(config.PRNG, utils.HashWithDomain(domain, seed))
	if err != nil {
		return nil, err
	}
	return sampler.New(src), nil
}

func (a *app) readMessage(args []string, config CLIConfig) ([]byte, error) {
	if message := getArg(args, "--message", "-m"); message != "" {
		return []byte(message), nil
	}
	var r io.Reader = a.stdin
	if config.InputFile != "" {
		f, err := os.Open(config.InputFile)
		if err != nil {
			return nil, fmt.Errorf("reading input file: %w", err)
		}
		defer f.Close()
		r = f
	}
	data, err := io.ReadAll(io.LimitReader(r, utils.MaxMessageSize+1))
	if err != nil {
		return nil, fmt.Errorf("reading message: %w", err)
	}
	if err := utils.CheckLength(len(data), utils.MaxMessageSize); err != nil {
		if utils.IsLimitError(err) {
			return nil, fmt.Errorf("message exceeds %d bytes", utils.MaxMessageSize)
		}
		return nil, fmt.Errorf("reading message: %w", err)
	}
	return data, nil
}

func encodeBytes(data []byte, format OutputFormat) string {
	if format == FormatHex {
		return hex.EncodeToString(data)
	}
	return base64.StdEncoding.EncodeToString(data)
}

// decodeString decodes s in the given format. An empty format tries hex
// before base64, since hex text is often valid base64 as well.
func decodeString(s string, format OutputFormat) ([]byte, error) {
	switch format {
	case FormatHex:
		return hex.DecodeString(s)
	case FormatBase64:
		return base64.StdEncoding.DecodeString(s)
	}
	if data, err := hex.DecodeString(s); err == nil {
		return data, nil
	}
	if data, err := base64.StdEncoding.DecodeString(s); err == nil {
		return data, nil
	}
	return nil, errors.New("unable to decode string")
}

func fieldFormat(fields map[string]interface{}) OutputFormat {
	format, _ := fields["format"].(string)
	return OutputFormat(format)
}

func keyCheck(pk, sk []byte) string {
	buf := make([]byte, 0, len(pk)+len(sk))
	buf = append(append(buf, pk...), sk...)
	defer utils.Zeroize(buf)
	return hex.EncodeToString(utils.HashWithDomain(domainKeyCheck, buf)[:16])
}

// readJSONFile reads a bounded JSON object from filename.
func readJSONFile(filename string) (map[string]interface{}, []byte, error) {
	info, err := os.Stat(filename)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to stat file: %w", err)
	}
	if info.Size() > MaxInputFileSize {
		return nil, nil, fmt.Errorf("input file too large: %d > %d bytes", info.Size(), MaxInputFileSize)
	}
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, nil, err
	}
	var fields map[string]interface{}
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, data, err
	}
	return fields, data, nil
}

// loadKeyFromFile extracts one encoded field from a JSON export, or decodes
// the whole file as raw base64 or hex.
func loadKeyFromFile(filename, keyField string) ([]byte, error) {
	fields, data, err := readJSONFile(filename)
	if data == nil {
		return nil, err
	}
	if fields != nil {
		if val, ok := fields[keyField].(string); ok {
			return decodeString(val, fieldFormat(fields))
		}
		return nil, fmt.Errorf("field %q not found", keyField)
	}
	return decodeString(strings.TrimSpace(string(data)), "")
}

// verifyKeyCheck rejects a key-pair export whose key_check does not match
// its keys. Files without a key_check are accepted.
func verifyKeyCheck(filename string) error {
	fields, _, err := readJSONFile(filename)
	if err != nil || fields == nil {
		return nil
	}
	want, ok := fields["key_check"].(string)
	if !ok {
		return nil
	}
	pkStr, _ := fields["public_key"].(string)
	skStr, _ := fields["secret_key"].(string)
	pk, err := decodeString(pkStr, fieldFormat(fields))
	if err != nil {
		return fmt.Errorf("key check: %w", err)
	}
	sk, err := decodeString(skStr, fieldFormat(fields))
	if err != nil {
		return fmt.Errorf("key check: %w", err)
	}
	defer utils.Zeroize(sk)
	if !utils.ConstantTimeEqual([]byte(keyCheck(pk, sk)), []byte(want)) {
		return errors.New("key check failed: key file is corrupted")
	}
	return nil
}

// readEncoding returns the message encoding recorded in a ciphertext export.
func readEncoding(filename string) string {
	fields, _, err := readJSONFile(filename)
	if err != nil || fields == nil {
		return EncodingBytes
	}
	if enc, ok := fields["encoding"].(string); ok {
		return enc
	}
	return EncodingBytes
}

func writeOutput(data []byte, filename string, stdout io.Writer) error {
	if filename == "" {
		_, err := fmt.Fprintln(stdout, string(data))
		return err
	}

	// Restrictive permissions: the output may hold key material.
	f, err := os.OpenFile(filename, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	defer f.Close()
	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("writing output file: %w", err)
	}
	if err := os.Chmod(filename, 0600); err != nil {
		return fmt.Errorf("setting file permissions: %w", err)
	}
	return nil
}
