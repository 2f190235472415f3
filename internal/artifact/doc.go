// Package artifact downloads and installs the release artifacts of the
// local cluster's external components: the node distribution, the
// yaci-store jar, and the ogmios and kupo services.
//
// # Pipeline
//
// Installing a component runs one pass through:
//
//  1. Resolve: an explicit URL wins; otherwise the component's URL template
//     is filled from the configured version and the host's OS and CPU
//     architecture tokens. Token vocabularies differ per upstream project
//     and live in one ResolverSpec per component.
//  2. Download: the artifact is streamed to the component's directory in
//     4 KiB chunks while a single progress line is redrawn in place.
//  3. Extract: tar+gzip and zip archives are unpacked into the component's
//     directory. Directory entries are skipped and entries that would land
//     outside the directory are rejected.
//  4. Configure: known executables are made runnable.
//
// A bare file such as the yaci-store jar is installed by the download alone.
//
// # Usage
//
//	mgr, err := artifact.NewManager(artifact.Config{
//	    Home:     "/home/user/.clusterfetch",
//	    Platform: info,
//	    Sources: map[artifact.Component]artifact.Source{
//	        artifact.ComponentNode: {Version: "10.1.2"},
//	    },
//	    Reporter: console.New(os.Stdout),
//	})
//	if err != nil {
//	    return err
//	}
//	outcome := mgr.Install(ctx, artifact.ComponentNode, false)
//	if !outcome.OK() {
//	    return outcome.Err
//	}
//
// Every failure is reported through the Reporter and returned in the
// Outcome; Install never panics on I/O errors. Nothing is retried.
package artifact
