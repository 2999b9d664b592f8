package faq

import "github.com/vyrodovalexey/zuice-storefront/internal/model"

// DefaultEntries returns the inverter FAQ used by the fuzzy strategy.
func DefaultEntries() []model.FAQEntry {
	return []model.FAQEntry{
		{
			Question: "Is the inverter compatible with existing solar panels?",
			Answer:   "Yes, it's compatible with most panels on the Indian market.",
		},
		{
			Question: "Can I monitor performance on my phone?",
			Answer:   "Absolutely! Our mobile app provides real-time performance tracking.",
		},
		{
			Question: "What about weather resistance?",
			Answer:   "Our inverters are fully dustproof and weather-sealed to IP65 standard.",
		},
		{
			Question: "How long is the warranty period?",
			Answer:   "Our inverters come with a 5-year comprehensive warranty.",
		},
		{
			Question: "What is the typical lifespan of the inverter?",
			Answer:   "The typical lifespan is around 10-15 years with regular maintenance.",
		},
		{
			Question: "Does the inverter support battery storage?",
			Answer:   "Yes, compatible with popular battery storage systems for backup power.",
		},
		{
			Question: "Can the inverter be installed indoors and outdoors?",
			Answer:   "Our inverters support both indoor and outdoor installations with proper protection.",
		},
		{
			Question: "What is the installation process like?",
			Answer:   "Installation is quick and done by certified technicians, usually within a day.",
		},
		{
			Question: "Is there a mobile app for remote monitoring?",
			Answer:   "Yes, our mobile app allows remote monitoring and performance alerts.",
		},
		{
			Question: "How do I maintain or clean the inverter?",
			Answer:   "Simply wipe with a dry cloth and schedule a periodic check-up for optimal performance.",
		},
	}
}

const pricingResponse = "Zuice Pricing Information:\n\n" +
	"💰 **Zuice-12V-1KVA**: ₹25,000 - ₹30,000\n" +
	"💰 **Zuice-24V-2KVA**: ₹35,000 - ₹42,000\n" +
	"💰 **Zuice-48V-3KVA**: ₹45,000 - ₹55,000\n" +
	"💰 **Zuice-48V-5KVA**: ₹65,000 - ₹75,000\n" +
	"💰 **Monitoring Kit**: ₹8,000 - ₹12,000\n\n" +
	"Prices include GST. Installation and accessories extra. Ready to get a detailed quote?"

// DefaultTopics returns the solar assistant knowledge base in match order.
func DefaultTopics() []Topic {
	return []Topic{
		{
			Name:     "models",
			Keywords: []string{"mu1000", "models", "variants", "types", "difference", "compare"},
			Response: "Our Zuice Solar Hybrid PCU series offers four powerful variants:\n\n" +
				"⚡ **Zuice-12V-1KVA**: Perfect for small homes and cabins\n" +
				"⚡ **Zuice-24V-2KVA**: Ideal for medium-sized residential applications\n" +
				"⚡ **Zuice-48V-3KVA**: Great for larger homes with higher energy needs\n" +
				"⚡ **Zuice-48V-5KVA**: Commercial-grade solution for maximum power\n\n" +
				"All models feature pure sine wave output, MPPT charge controller, and hybrid functionality. " +
				"Which capacity suits your needs?",
			Suggestions: []string{
				"Which Zuice model is best for my home?",
				"Compare 12V vs 24V vs 48V models",
				"Power capacity recommendations",
				"Model selection guide",
			},
		},
		{
			Name:     "specifications",
			Keywords: []string{"specifications", "specs", "technical", "features", "capacity", "efficiency"},
			Response: "Zuice MU1000 Technical Specifications:\n\n" +
				"🔋 **Pure Sine Wave Output**: Clean, stable power\n" +
				"⚡ **MPPT Technology**: 99.5% tracking efficiency\n" +
				"🔄 **Hybrid Functionality**: Solar + Grid + Battery\n" +
				"📊 **LCD Display**: Real-time monitoring\n" +
				"🛡️ **Protection Features**: Over-voltage, under-voltage, short circuit\n" +
				"🌡️ **Operating Temperature**: -10°C to +50°C\n" +
				"📱 **Smart Monitoring**: Mobile app connectivity\n\n" +
				"Need detailed specs for a specific model?",
			Suggestions: []string{
				"MPPT efficiency details",
				"Pure sine wave benefits",
				"LCD display features",
				"Protection mechanisms",
			},
		},
		{
			Name:     "installation",
			Keywords: []string{"installation", "install", "setup", "requirements", "wiring"},
			Response: "Zuice MU1000 Installation Requirements:\n\n" +
				"🏠 **Location**: Well-ventilated, dry area away from direct sunlight\n" +
				"⚡ **Electrical**: Proper grounding and circuit protection\n" +
				"🔧 **Tools**: Basic electrical tools and multimeter\n" +
				"📏 **Space**: Minimum 30cm clearance on all sides\n" +
				"👷 **Professional**: Certified electrician recommended\n" +
				"📋 **Permits**: Check local electrical codes\n\n" +
				"Installation typically takes 2-4 hours. Planning an installation?",
			Suggestions: []string{
				"Find certified installer",
				"Wiring requirements",
				"Space and ventilation needs",
				"Installation timeline",
			},
		},
		{
			Name:     "hybrid",
			Keywords: []string{"hybrid", "battery", "grid", "solar", "backup", "switching"},
			Response: "Zuice MU1000 Hybrid Functionality:\n\n" +
				"☀️ **Solar Priority**: Uses solar power first\n" +
				"🔋 **Battery Backup**: Seamless switching during outages\n" +
				"⚡ **Grid Integration**: Automatic grid tie capability\n" +
				"🔄 **Load Management**: Intelligent power distribution\n" +
				"📊 **Energy Optimization**: Maximum efficiency algorithms\n" +
				"⏰ **Time-of-Use**: Smart grid interaction\n\n" +
				"The system automatically manages all power sources for optimal efficiency. " +
				"Want to know more about a specific feature?",
			Suggestions: []string{
				"Solar priority mode",
				"Battery backup switching",
				"Grid tie functionality",
				"Load management features",
			},
		},
		{
			Name:     "maintenance",
			Keywords: []string{"maintenance", "service", "cleaning", "care", "upkeep", "warranty"},
			Response: "Zuice MU1000 Maintenance Guidelines:\n\n" +
				"✅ **Monthly Check**: Monitor LCD display readings\n" +
				"🧹 **Cleaning**: Keep vents dust-free\n" +
				"🔧 **Connections**: Inspect terminals quarterly\n" +
				"📱 **App Monitoring**: Check performance remotely\n" +
				"🛡️ **Warranty**: 2-year comprehensive coverage\n" +
				"👨‍🔧 **Service**: Annual professional inspection recommended\n\n" +
				"Minimal maintenance required thanks to robust design. Need specific maintenance tips?",
			Suggestions: []string{
				"Monthly check procedures",
				"Cleaning guidelines",
				"Performance monitoring",
				"Service schedule",
			},
		},
		{
			Name:     "pricing",
			Keywords: []string{"price", "cost", "buy", "purchase", "quote", "budget"},
			Response: pricingResponse,
			Suggestions: []string{
				"Model comparison",
				"Installation costs",
				"Financing options",
				"ROI calculator",
			},
		},
	}
}

// fallbackTopics are tried, in order, when no knowledge-base topic matches.
// The keyword check is a plain substring test, so "hi" also fires inside
// longer words.
func fallbackTopics() []Topic {
	return []Topic{
		{
			Name:     "greeting",
			Keywords: []string{"hello", "hi"},
			Response: "Hello! I'm your Zuice Solar Assistant. I'm here to help with everything about our " +
				"Zuice Solar solutions. What would you like to know?",
			Suggestions: []string{
				"Tell me about Zuice models",
				"What are the prices?",
				"Installation requirements",
				"Technical specifications",
			},
		},
		{
			Name:     "price",
			Keywords: []string{"price", "cost"},
			Response: pricingResponse,
			Suggestions: []string{
				"Compare model features",
				"Installation costs",
				"Financing options",
				"Get a quote",
			},
		},
		{
			Name:     "warranty",
			Keywords: []string{"warranty", "guarantee"},
			Response: "Zuice Warranty Coverage:\n\n" +
				"🛡️ **Comprehensive Warranty**: 2 years full coverage\n" +
				"🛡️ **Performance Guarantee**: 99.5% MPPT efficiency\n" +
				"🛡️ **Quality Assurance**: Rigorous testing standards\n" +
				"🛡️ **Service Support**: Nationwide service network\n" +
				"🛡️ **Replacement**: Quick replacement for defective units\n\n" +
				"Our Zuice series comes with industry-leading warranty. Need specific warranty details?",
			Suggestions: []string{
				"Warranty terms",
				"Service locations",
				"Claim process",
				"Extended coverage",
			},
		},
	}
}

const genericResponse = "I'd be happy to help with that! I specialize in Zuice Solar solutions - from " +
	"technical specifications to installation guidance. Could you be more specific about what you'd like to know?"

var genericSuggestions = []string{
	"Zuice model comparison",
	"Installation process",
	"Pricing details",
	"Technical support",
}

// Greeting returns the opening message of a conversation held with the
// given strategy.
func Greeting(strategy string) Reply {
	if strategy == StrategyKeyword {
		return Reply{
			Text: "Hi! I'm your Zuice Solar Assistant. I'm here to help you with everything about our " +
				"revolutionary Zuice Solar solutions - from technical specifications to installation guidance. " +
				"How can I assist you today?",
			Suggestions: []string{
				"Tell me about Zuice models",
				"What are the prices?",
				"Installation process",
				"Technical specifications",
			},
			Source: "greeting",
		}
	}
	return Reply{Text: "Hi! Ask me anything about solar inverters.", Source: "greeting"}
}

// ResetGreeting returns the message that opens a conversation after the
// visitor clears it.
func ResetGreeting() Reply {
	return Reply{
		Text: "Chat reset! I'm SolarBot from our passionate startup team, ready to help with your solar " +
			"inverter questions. We're making clean energy accessible to everyone. What would you like to know?",
		Suggestions: []string{
			"What inverter do I need for my home?",
			"Compare different inverter types",
			"Installation requirements",
			"Maintenance tips",
		},
		Source: "greeting",
	}
}
