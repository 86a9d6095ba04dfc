package domain

// buildScriptOrder is the set of package.json scripts the build phase runs,
// in declaration order.
var buildScriptOrder = []string{"heroku-prebuild", "build", "heroku-postbuild"}

// PackageJson is the parsed project manifest, reduced to the fields the
// build orchestration consumes.
type PackageJson struct {
	Name    string
	Engines Engines
	Scripts map[string]string
}

// Engines carries the tool version requirements a project declares.
type Engines struct {
	Yarn string
	Node string
}

// YarnRequirement parses the declared yarn engine range, if any.
// Returns nil without error when the manifest declares none.
func (p *PackageJson) YarnRequirement() (*Requirement, error) {
	if p.Engines.Yarn == "" {
		return nil, nil
	}
	return ParseRequirement(p.Engines.Yarn)
}

// BuildScripts returns the declared build scripts in execution order.
func (p *PackageJson) BuildScripts() []string {
	var scripts []string
	for _, name := range buildScriptOrder {
		if _, ok := p.Scripts[name]; ok {
			scripts = append(scripts, name)
		}
	}
	return scripts
}

// HasStartScript reports whether the manifest declares a start script.
func (p *PackageJson) HasStartScript() bool {
	_, ok := p.Scripts["start"]
	return ok
}
