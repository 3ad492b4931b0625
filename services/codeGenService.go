package services

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/amine-amaach/simulators/uanodegen/ports"
	"github.com/amine-amaach/simulators/uanodegen/utils"
	"github.com/dave/jennifer/jen"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const (
	uaPkg        = "github.com/awcullen/opcua/ua"
	uuidPkg      = "github.com/google/uuid"
	addrspacePkg = "github.com/amine-amaach/simulators/uanodegen/addrspace"
)

// multiline renders a composite literal body with one element per line.
var multiline = jen.Options{Open: "{", Close: "}", Separator: ",", Multi: true}

// keyed pairs field names with values, keeping their order.
func keyed(keys []string, values []jen.Code) []jen.Code {
	out := make([]jen.Code, len(keys))
	for i, k := range keys {
		out[i] = jen.Id(k).Op(":").Add(values[i])
	}
	return out
}

// Result summarizes a generation run.
type Result struct {
	Part    string
	Emitted map[string]int
	Skipped []SkippedNode
}

// SkippedNode is a record the generator could not emit.
type SkippedNode struct {
	NodeID   string
	NodeType string
	Reason   string
}

// Total returns the number of emitted nodes.
func (r *Result) Total() int {
	n := 0
	for _, c := range r.Emitted {
		n += c
	}
	return n
}

type Option func(*codeGenService)

// WithPackageName sets the package clause of the generated file.
func WithPackageName(name string) Option {
	return func(svc *codeGenService) { svc.packageName = name }
}

// WithPart overrides the part name the factory function is named after.
func WithPart(part string) Option {
	return func(svc *codeGenService) { svc.part = part }
}

// WithClock sets the clock used for the file creation date.
func WithClock(now func() time.Time) Option {
	return func(svc *codeGenService) { svc.now = now }
}

type codeGenService struct {
	logger      *zap.SugaredLogger
	catalog     ports.CatalogPort
	packageName string
	part        string
	now         func() time.Time
}

func NewCodeGenService(logger *zap.SugaredLogger, catalog ports.CatalogPort, opts ...Option) *codeGenService {
	svc := &codeGenService{
		logger:      logger,
		catalog:     catalog,
		packageName: "addressspace",
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// Generate builds the Go file reconstructing the address space of schema.
// Records of unsupported node types are skipped and reported in the result;
// any other failure aborts the run.
func (svc *codeGenService) Generate(schema ports.SchemaPort) (*jen.File, *Result, error) {
	header := schema.Header()
	part := svc.part
	if part == "" {
		part = header.Part
	}
	part = identifier(part)
	res := &Result{Part: part, Emitted: map[string]int{}}

	aliases := schema.Aliases()
	values := NewValueEncoder(NewTypeResolver(svc.catalog))
	nodes := NewNodeEmitter(aliases, svc.catalog, values, NewReferenceEmitter(aliases))

	f := jen.NewFile(svc.packageName)
	f.ImportName(uaPkg, "ua")
	f.ImportName(uuidPkg, "uuid")
	f.ImportName(addrspacePkg, "addrspace")
	f.HeaderComment("Code generated by uanodegen. DO NOT EDIT.")
	f.HeaderComment("")
	f.HeaderComment("Model Uri: " + header.ModelURI)
	f.HeaderComment("Version: " + header.Version)
	if !header.PublicationDate.IsZero() {
		f.HeaderComment("Publication date: " + header.PublicationDate.UTC().Format(time.RFC3339))
	}
	f.HeaderComment("File creation Date: " + svc.now().UTC().Format("2006-01-02 15:04:05"))

	records := schema.Records()
	svc.logger.Infow(utils.Colorize(fmt.Sprintf("Generating address space %s ⌛", part), utils.Cyan),
		"model", header.ModelURI, "nodes", len(records))

	var genErr error
	f.Comment(fmt.Sprintf("CreateStandardAddressSpace%s adds the %s nodes and references to server.", part, part))
	f.Func().Id("CreateStandardAddressSpace"+part).
		Params(jen.Id("server").Qual(addrspacePkg, "NodeManager")).
		Error().
		BlockFunc(func(g *jen.Group) {
			for _, rec := range records {
				err := nodes.Emit(g, rec)
				switch {
				case err == nil:
					res.Emitted[rec.NodeType]++
				case errors.Is(err, ErrUnsupportedNodeType):
					svc.logger.Warnf("Not implemented node type %s, skipping %s ✖️", rec.NodeType, rec.NodeID)
					res.Skipped = append(res.Skipped, SkippedNode{NodeID: rec.NodeID, NodeType: rec.NodeType, Reason: err.Error()})
				default:
					genErr = err
					return
				}
			}
			g.Return(jen.Nil())
		})
	if genErr != nil {
		svc.logger.Errorf("Failed to generate %s ❌ %v", part, genErr)
		return nil, res, genErr
	}
	svc.logger.Infow(utils.Colorize(fmt.Sprintf("Address space %s generated ✔️", part), utils.Green),
		"emitted", res.Total(), "skipped", len(res.Skipped))
	return f, res, nil
}

// Run generates the file for schema and writes it through sink. Nothing is
// published at path unless the whole run succeeds.
func (svc *codeGenService) Run(schema ports.SchemaPort, sink ports.SinkPort, path string) (*Result, error) {
	f, res, err := svc.Generate(schema)
	if err != nil {
		return res, err
	}
	art, err := sink.Create(path)
	if err != nil {
		return res, errors.Wrapf(err, "opening output %s", path)
	}
	committed := false
	defer func() {
		if !committed {
			if err := art.Abort(); err != nil {
				svc.logger.Errorf("Failed to discard %s ❌ %v", path, err)
			}
		}
	}()
	if err := f.Render(art); err != nil {
		return res, errors.Wrap(err, "rendering generated code")
	}
	if err := art.Commit(); err != nil {
		return res, errors.Wrapf(err, "writing output %s", path)
	}
	committed = true
	svc.logger.Infow(utils.Colorize("Generated code written 💾", utils.Green), "output", path)
	return res, nil
}

// PartName returns the logical part of a schema file name, the second to last
// dot separated segment: Opc.Ua.NodeSet2.Services.xml gives Services.
func PartName(path string) string {
	segs := strings.Split(filepath.Base(path), ".")
	if len(segs) < 2 {
		return identifier(segs[0])
	}
	return identifier(segs[len(segs)-2])
}

// identifier drops the characters a Go identifier cannot hold.
func identifier(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
