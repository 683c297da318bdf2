package metrics

const (
	IPClientPktsReceivedH  = "The total number of packets received via IP"
	IPClientPktsReceivedN  = "ntpquery_ip_client_pkts_received"
	IPClientReqsSentH      = "The total number of requests sent via IP"
	IPClientReqsSentN      = "ntpquery_ip_client_reqs_sent"
	IPClientRespsAcceptedH = "The total number of responses decoded via IP"
	IPClientRespsAcceptedN = "ntpquery_ip_client_resps_accepted"
	IPClientRespsShortH    = "The total number of responses shorter than an NTP header"
	IPClientRespsShortN    = "ntpquery_ip_client_resps_short"
	IPClientSendFailuresH  = "The total number of requests that could not be sent completely"
	IPClientSendFailuresN  = "ntpquery_ip_client_send_failures"
	IPClientTimeoutsH      = "The total number of requests without response before the deadline"
	IPClientTimeoutsN      = "ntpquery_ip_client_timeouts"

	ResolverFailuresH = "The total number of host names that could not be resolved"
	ResolverFailuresN = "ntpquery_resolver_failures"
)
