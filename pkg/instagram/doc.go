// Package instagram is a thin client for three endpoints of Instagram's
// private API: username resolution, full profile info, and the
// account-recovery lookup that returns masked contact hints.
//
// Every operation returns a result value holding either data or a
// classified *errors.Error, never both:
//
//	client := instagram.NewClient(&cfg.Instagram, log)
//
//	lookup := client.Resolve(ctx, instagram.ByUsername("alice"))
//	if lookup.Err != nil {
//	    return lookup.Err
//	}
//	profile := client.FetchProfile(ctx, lookup.ID)
//	if profile.Err != nil {
//	    return profile.Err
//	}
//	fmt.Println(profile.Profile.String("full_name"))
package instagram
