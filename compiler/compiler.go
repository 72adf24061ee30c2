package compiler

import (
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"github.com/tliron/commonlog"

	"github.com/rubiojr/jnigen/gobridge"
	"github.com/rubiojr/jnigen/jnirt"
)

// Config controls where generated artifacts are written.
type Config struct {
	// JavaOut is the root of the Java source tree. Java output is skipped
	// when it is empty.
	JavaOut string
	// GoFile overrides the bridge file path. Relative paths are resolved
	// against the package directory. Defaults to <package>_jni.go.
	GoFile string
	// Debug prints every artifact to Stdout as well.
	Debug  bool
	Stdout io.Writer
}

// Compiler turns annotated Go packages into bridge and Java sources.
type Compiler struct {
	Config Config
	log    commonlog.Logger
}

// New returns a Compiler using cfg.
func New(cfg Config) *Compiler {
	if cfg.Stdout == nil {
		cfg.Stdout = os.Stdout
	}
	return &Compiler{Config: cfg, log: commonlog.GetLogger("jnigen.compiler")}
}

// File is one generated artifact.
type File struct {
	Path   string
	Source []byte
}

// Output holds everything generated for one package.
type Output struct {
	Package *gobridge.Package
	Bridge  *File // nil when the package exports nothing
	Java    []*File
}

// Files returns every artifact, the bridge first.
func (o *Output) Files() []*File {
	var out []*File
	if o.Bridge != nil {
		out = append(out, o.Bridge)
	}
	return append(out, o.Java...)
}

// Check loads and classifies the package in dir without generating
// anything. The returned error lists every diagnostic.
func (c *Compiler) Check(dir string) (*gobridge.Package, error) {
	c.log.Debugf("inspecting %s", dir)
	pkg, err := gobridge.Inspect(dir)
	if err != nil {
		return nil, err
	}
	c.log.Infof("%s: %d classes, %d interfaces", pkg.Path, len(pkg.Classes), len(pkg.Interfaces))
	return pkg, nil
}

// Emit generates the artifacts of the package in dir in memory.
func (c *Compiler) Emit(dir string) (*Output, error) {
	pkg, err := c.Check(dir)
	if err != nil {
		return nil, err
	}
	out := &Output{Package: pkg}
	if pkg.Empty() {
		c.log.Noticef("%s: nothing to export", pkg.Path)
		return out, nil
	}

	var buf bytes.Buffer
	if err := EmitBridgeFile(&buf, pkg); err != nil {
		return nil, fmt.Errorf("rendering bridge of %s: %w", pkg.Path, err)
	}
	out.Bridge = &File{Path: c.bridgePath(pkg), Source: buf.Bytes()}

	for _, cl := range pkg.Classes {
		c.log.Debugf("class %s: %d methods, %d constructors", cl.HostName(), len(cl.Methods), len(cl.Constructors))
		out.Java = append(out.Java, &File{
			Path:   c.javaPath(cl.Namespace, cl.Name),
			Source: []byte(EmitJavaClass(cl)),
		})
	}
	for _, it := range pkg.Interfaces {
		c.log.Debugf("interface %s: %d methods", it.HostName(), len(it.Methods))
		out.Java = append(out.Java, &File{
			Path:   c.javaPath(it.Namespace, it.Name),
			Source: []byte(EmitJavaInterface(it)),
		})
	}
	return out, nil
}

// Generate emits the artifacts of the package in dir and writes them.
// Nothing is written when the package has any diagnostic. Java files are
// only written when JavaOut is set.
func (c *Compiler) Generate(dir string) (*Output, error) {
	out, err := c.Emit(dir)
	if err != nil {
		return nil, err
	}
	if out.Bridge == nil {
		return out, nil
	}

	if err := writeFile(out.Bridge); err != nil {
		return nil, err
	}
	c.log.Infof("wrote %s", out.Bridge.Path)
	if c.Config.JavaOut != "" {
		for _, f := range out.Java {
			if err := writeFile(f); err != nil {
				return nil, err
			}
			c.log.Infof("wrote %s", f.Path)
		}
	}

	if c.Config.Debug {
		for _, f := range out.Files() {
			fmt.Fprintf(c.Config.Stdout, "// %s\n%s\n", f.Path, f.Source)
		}
	}
	return out, nil
}

func (c *Compiler) bridgePath(pkg *gobridge.Package) string {
	name := c.Config.GoFile
	if name == "" {
		name = pkg.Name + "_jni.go"
	}
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(pkg.Dir, name)
}

// javaPath is <JavaOut>/<namespace as path>/<name>.java. With no JavaOut
// the path is relative.
func (c *Compiler) javaPath(namespace, name string) string {
	return filepath.Join(c.Config.JavaOut, filepath.FromSlash(gobridge.HostPath(namespace)), name+".java")
}

func writeFile(f *File) error {
	if err := os.MkdirAll(filepath.Dir(f.Path), 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Dir(f.Path), err)
	}
	if err := os.WriteFile(f.Path, f.Source, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", f.Path, err)
	}
	return nil
}

// WriteRuntime writes the Java support classes generated wrappers depend
// on under root, in their package directory, and returns the written
// paths.
func WriteRuntime(root string) ([]string, error) {
	entries, err := fs.ReadDir(jnirt.JavaSources, "java")
	if err != nil {
		return nil, err
	}
	dir := filepath.Join(root, filepath.FromSlash(gobridge.HostPath(jnirt.JavaPackage)))
	var written []string
	for _, e := range entries {
		src, err := fs.ReadFile(jnirt.JavaSources, path.Join("java", e.Name()))
		if err != nil {
			return nil, err
		}
		f := &File{Path: filepath.Join(dir, e.Name()), Source: src}
		if err := writeFile(f); err != nil {
			return nil, err
		}
		written = append(written, f.Path)
	}
	return written, nil
}
