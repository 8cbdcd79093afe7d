package router

import (
	"context"
	"fmt"

	"github.com/apexframe/apex/pkg/codegen"
)

// NodeID indexes a route node inside its registry's arena. Parent
// links are stored as indexes rather than owning references.
type NodeID int

// invalidNode marks the absent parent of root-level nodes.
const invalidNode NodeID = -1

// Route is a route declaration consumed at registration time.
type Route struct {
	// Path is the pattern for this node, segments separated by '/',
	// with ':name' marking a parameter segment.
	Path string

	// Program holds the compiled renderers for this route's
	// component, if it has one.
	Program *codegen.Program

	// Loader is the route's optional data-loading capability.
	Loader Loader

	// Children are nested route declarations in order.
	Children []Route
}

// Request is the descriptor handed to a loader.
type Request struct {
	Path   string
	Params Params
}

// Loader maps a request descriptor to a LoaderResult. Loaders are the
// only suspension point in the pipeline; ctx is cancelled when the
// request is abandoned.
type Loader func(ctx context.Context, req Request) LoaderResult

// LoaderKind discriminates LoaderResult variants.
type LoaderKind uint8

const (
	LoaderOk          LoaderKind = iota // Rendering proceeds with Data
	LoaderRedirect                      // Boundary issues a redirect to Location
	LoaderNotFound                      // Boundary issues a not-found response
	LoaderServerError                   // Boundary issues a server error with Message
	LoaderRaw                           // Boundary writes Response verbatim
)

// String returns the string representation of the LoaderKind.
func (k LoaderKind) String() string {
	switch k {
	case LoaderOk:
		return "Ok"
	case LoaderRedirect:
		return "Redirect"
	case LoaderNotFound:
		return "NotFound"
	case LoaderServerError:
		return "ServerError"
	case LoaderRaw:
		return "RawResponse"
	default:
		return "Unknown"
	}
}

// LoaderResult is the outcome of a route's loader. Rendering proceeds
// only for Ok; every other variant short-circuits the outlet chain and
// is surfaced by the boundary layer.
type LoaderResult struct {
	Kind     LoaderKind
	Data     any    // LoaderOk
	Location string // LoaderRedirect
	Message  string // LoaderServerError
	Response any    // LoaderRaw
}

// Ok builds a success result carrying loader data.
func Ok(data any) LoaderResult {
	return LoaderResult{Kind: LoaderOk, Data: data}
}

// Redirect builds a redirect result.
func Redirect(location string) LoaderResult {
	return LoaderResult{Kind: LoaderRedirect, Location: location}
}

// NotFound builds a not-found result.
func NotFound() LoaderResult {
	return LoaderResult{Kind: LoaderNotFound}
}

// ServerError builds a server-error result.
func ServerError(message string) LoaderResult {
	return LoaderResult{Kind: LoaderServerError, Message: message}
}

// Raw builds a verbatim-response result.
func Raw(response any) LoaderResult {
	return LoaderResult{Kind: LoaderRaw, Response: response}
}

// RegistrationError is a fatal startup error: the route tree could not
// be built from the declarations.
type RegistrationError struct {
	Path string
	Msg  string
}

// Error returns the error message with the offending pattern.
func (e *RegistrationError) Error() string {
	return fmt.Sprintf("router: registration of %q failed: %s", e.Path, e.Msg)
}
