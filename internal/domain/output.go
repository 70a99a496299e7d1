package domain

import (
	"strings"
)

// AssetClass groups output files that share a filename template.
type AssetClass string

const (
	AssetScript AssetClass = "script"
	AssetStyle  AssetClass = "style"
	AssetImage  AssetClass = "image"
	AssetFont   AssetClass = "font"
	AssetMedia  AssetClass = "media"
)

// AssetClasses lists every class in a stable order.
var AssetClasses = []AssetClass{AssetScript, AssetStyle, AssetImage, AssetFont, AssetMedia}

var extClasses = map[string]AssetClass{
	"js":    AssetScript,
	"mjs":   AssetScript,
	"css":   AssetStyle,
	"png":   AssetImage,
	"jpg":   AssetImage,
	"jpeg":  AssetImage,
	"gif":   AssetImage,
	"webp":  AssetImage,
	"avif":  AssetImage,
	"svg":   AssetImage,
	"ico":   AssetImage,
	"woff":  AssetFont,
	"woff2": AssetFont,
	"eot":   AssetFont,
	"ttf":   AssetFont,
	"otf":   AssetFont,
	"mp4":   AssetMedia,
	"webm":  AssetMedia,
	"ogg":   AssetMedia,
	"mp3":   AssetMedia,
	"wav":   AssetMedia,
	"flac":  AssetMedia,
	"aac":   AssetMedia,
}

// ClassifyExt maps a file extension (with or without the leading dot) to its
// asset class.
func ClassifyExt(ext string) (AssetClass, bool) {
	c, ok := extClasses[strings.ToLower(strings.TrimPrefix(ext, "."))]
	return c, ok
}

// StaticExtensions returns the extensions of the image, font and media classes.
func StaticExtensions() []string {
	var out []string
	for ext, c := range extClasses {
		if c == AssetImage || c == AssetFont || c == AssetMedia {
			out = append(out, ext)
		}
	}
	return out
}

// OutputDescriptor describes where a build writes its artifacts.
type OutputDescriptor struct {
	Directory   string
	PublicPath  string
	AssetSubdir string
	Filenames   map[AssetClass]string
	// Library is the global name template a pre-bundle assigns, e.g. "[name]_library".
	Library string
}

// Filename returns the template for an asset class.
func (o OutputDescriptor) Filename(c AssetClass) string {
	return o.Filenames[c]
}

// Clone returns a copy that does not share the filename map.
func (o OutputDescriptor) Clone() OutputDescriptor {
	out := o
	out.Filenames = make(map[AssetClass]string, len(o.Filenames))
	for k, v := range o.Filenames {
		out.Filenames[k] = v
	}
	return out
}

// LibraryName expands the library template for a canonical name.
func (o OutputDescriptor) LibraryName(name CanonicalName) string {
	tpl := o.Library
	if tpl == "" {
		tpl = "[name]_library"
	}
	return strings.ReplaceAll(tpl, "[name]", string(name))
}

// DefaultBuildFilenames are the main build's filename templates.
func DefaultBuildFilenames() map[AssetClass]string {
	return map[AssetClass]string{
		AssetScript: "js/[name].[contenthash:8].js",
		AssetStyle:  "css/[name].[contenthash:8].css",
		AssetImage:  "img/[name].[hash:8].[ext]",
		AssetFont:   "fonts/[name].[hash:8].[ext]",
		AssetMedia:  "media/[name].[hash:8].[ext]",
	}
}
