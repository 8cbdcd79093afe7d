// Package server is the HTTP boundary over the Apex core. It maps
// request paths through the route matcher and resolver, and interprets
// loader outcomes: Ok renders HTML, Redirect/NotFound/ServerError map
// to the corresponding HTTP responses, RawResponse is written
// verbatim, and an unmatched path is a plain 404. A websocket endpoint
// serves the client-target instruction stream for soft navigation.
package server
