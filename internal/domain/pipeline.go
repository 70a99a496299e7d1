package domain

// Mode selects what an invocation does with the pipeline. It is chosen once.
type Mode string

const (
	// ModeReference consumes an existing pre-bundle (the default).
	ModeReference Mode = "reference"
	// ModeProduce compiles the pre-bundle itself.
	ModeProduce Mode = "produce"
)

// Optimization toggles chunk-level optimizations.
type Optimization struct {
	SplitChunks  bool
	RuntimeChunk bool
}

// CleanRule describes how the output directory is cleared before compiling.
type CleanRule struct {
	Enabled bool
	Ignore  []string
}

// Pipeline is the complete, immutable description of one compile. Planners
// return new pipelines; bundler adapters only read them.
type Pipeline struct {
	Mode         Mode
	Root         string
	Entry        EntryMap
	Output       OutputDescriptor
	Optimization Optimization
	SourceMap    bool
	Clean        CleanRule
	Plugins      []Plugin
}

// Clone returns a copy safe to modify. Plugin options are values and are
// copied shallowly; planners replace them instead of mutating.
func (p Pipeline) Clone() Pipeline {
	out := p
	out.Entry = p.Entry.Clone()
	out.Output = p.Output.Clone()
	out.Clean.Ignore = append([]string(nil), p.Clean.Ignore...)
	out.Plugins = append([]Plugin(nil), p.Plugins...)
	return out
}

// Plugin returns the registration with the given id.
func (p Pipeline) Plugin(id string) (Plugin, bool) {
	for _, pl := range p.Plugins {
		if pl.ID == id {
			return pl, true
		}
	}
	return Plugin{}, false
}

// PluginsByTag returns the registrations carrying tag, in registration order.
func (p Pipeline) PluginsByTag(tag PluginTag) []Plugin {
	var out []Plugin
	for _, pl := range p.Plugins {
		if pl.Tag == tag {
			out = append(out, pl)
		}
	}
	return out
}

// WithPlugin registers pl, replacing an existing registration with the same id
// in place so that registration order stays stable.
func (p Pipeline) WithPlugin(pl Plugin) Pipeline {
	out := p.Clone()
	for i := range out.Plugins {
		if out.Plugins[i].ID == pl.ID {
			out.Plugins[i] = pl
			return out
		}
	}
	out.Plugins = append(out.Plugins, pl)
	return out
}

// KeepTags drops every registration whose tag is not in allow.
func (p Pipeline) KeepTags(allow map[PluginTag]bool) Pipeline {
	out := p.Clone()
	kept := out.Plugins[:0]
	for _, pl := range out.Plugins {
		if allow[pl.Tag] {
			kept = append(kept, pl)
		}
	}
	out.Plugins = kept
	return out
}
