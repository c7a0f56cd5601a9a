/*
Package isolatedspa serves "Single Page Applications" (SPAs) in a
cross-origin isolated context, alongside a tiny JSON API.

The SPAHandler type implements http.Handler to serve the SPA and its static
resources from any resource provider implementing the fs.FS interface. Any
request path not matching a static resource gets the SPA's index document
instead, so that client-side DOM routing keeps working on reloads and
bookmarked links.

Every response passes through the CrossOriginIsolation middleware which sets
the COOP and COEP headers needed to unlock browser features such as
SharedArrayBuffer and high-resolution timers. PermissiveCORS allows all
origins, methods, and headers. Server wires these together with the router
and the Hello API endpoint:

	srv := isolatedspa.NewServer(isolatedspa.DefaultConfig())
	err := srv.ListenAndServe(ctx)
*/
package isolatedspa
